package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary      Latest Rollup
// @Tags         rollups
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /rollups/latest [get]
func (s *Server) GetLatestRollup(c *gin.Context) {
	rollup, err := s.rollupSvc.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rollup)
}

// @Summary      Rollup History
// @Tags         rollups
// @Produce      json
// @Param        limit  query  int  false  "Max rows"  default(30)
// @Success      200  {object}  DataResponse
// @Router       /rollups [get]
func (s *Server) ListRollups(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	rollups, err := s.rollupSvc.History(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rollups)
}

// @Summary      Run Rollup Now
// @Description  Collect and persist today's portfolio rollup immediately
// @Tags         rollups
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /rollups/run [post]
func (s *Server) RunRollup(c *gin.Context) {
	rollup, err := s.rollupSvc.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rollup)
}
