package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Portfolio Metrics
// @Description  Portfolio-wide totals across all active complexes
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /portfolio/metrics [get]
func (s *Server) GetPortfolioMetrics(c *gin.Context) {
	totals, err := s.portfolioSvc.PortfolioMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, totals)
}

// @Summary      Complex Metrics
// @Description  Per-complex metric snapshots, failed tenants included
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /portfolio/complexes [get]
func (s *Server) GetComplexMetrics(c *gin.Context) {
	snapshots, err := s.portfolioSvc.ComplexMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, snapshots)
}
