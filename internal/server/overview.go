package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Operative Metrics
// @Description  Platform-level totals and recurring revenue
// @Tags         overview
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /overview/metrics [get]
func (s *Server) GetOperativeMetrics(c *gin.Context) {
	metrics, err := s.overviewSvc.OperativeMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, metrics)
}
