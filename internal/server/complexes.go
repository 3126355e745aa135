package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
)

type createComplexRequest struct {
	SchemaName string `json:"schema_name"`
	Name       string `json:"name"`
	PlanID     string `json:"plan_id"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// @Summary      Create Complex
// @Description  Register a new residential complex
// @Tags         complexes
// @Accept       json
// @Produce      json
// @Param        request body createComplexRequest true "Create Complex Request"
// @Success      200  {object}  DataResponse
// @Router       /complexes [post]
func (s *Server) CreateComplex(c *gin.Context) {
	var req createComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError(""))
		return
	}

	complex, err := s.tenantSvc.Create(c.Request.Context(), tenantdomain.CreateComplexRequest{
		SchemaName: strings.TrimSpace(req.SchemaName),
		Name:       strings.TrimSpace(req.Name),
		PlanID:     strings.TrimSpace(req.PlanID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, complex)
}

// @Summary      List Complexes
// @Description  List registered complexes
// @Tags         complexes
// @Produce      json
// @Param        active  query  bool  false  "Only active complexes"
// @Success      200  {object}  DataResponse
// @Router       /complexes [get]
func (s *Server) ListComplexes(c *gin.Context) {
	var (
		complexes []tenantdomain.Complex
		err       error
	)
	if c.Query("active") == "true" {
		complexes, err = s.tenantSvc.ListActive(c.Request.Context())
	} else {
		complexes, err = s.tenantSvc.List(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, complexes)
}

// @Summary      Get Complex
// @Tags         complexes
// @Produce      json
// @Param        id  path  string  true  "Complex ID"
// @Success      200  {object}  DataResponse
// @Router       /complexes/{id} [get]
func (s *Server) GetComplex(c *gin.Context) {
	complex, err := s.tenantSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, complex)
}

// @Summary      Activate or Deactivate Complex
// @Description  Inactive complexes are excluded from every aggregation
// @Tags         complexes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Complex ID"
// @Param        request body setActiveRequest true "Set Active Request"
// @Success      200  {object}  DataResponse
// @Router       /complexes/{id}/active [patch]
func (s *Server) SetComplexActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError(""))
		return
	}

	if err := s.tenantSvc.SetActive(c.Request.Context(), c.Param("id"), req.Active); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"active": req.Active})
}
