package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Download Consolidated Report
// @Description  Consolidated financial report as PDF or XLSX
// @Tags         finances
// @Produce      application/octet-stream
// @Param        start_date  query  string  true   "Period start (YYYY-MM-DD)"
// @Param        end_date    query  string  true   "Period end (YYYY-MM-DD)"
// @Param        format      query  string  false  "pdf or xlsx"  default(pdf)
// @Success      200  {file}  binary
// @Router       /finances/consolidated/report [get]
func (s *Server) DownloadConsolidatedReport(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	format := c.DefaultQuery("format", "pdf")
	if format != "pdf" && format != "xlsx" {
		AbortWithError(c, invalidRequestError("format must be pdf or xlsx"))
		return
	}

	report, err := s.financeSvc.ConsolidatedSummary(c.Request.Context(), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("consolidated-report-%s-%s.%s",
		start.Format(queryDateLayout), end.Format(queryDateLayout), format)

	var data []byte
	var contentType string
	switch format {
	case "pdf":
		data, err = s.reportSvc.ConsolidatedPDF(c.Request.Context(), report)
		contentType = "application/pdf"
	case "xlsx":
		data, err = s.reportSvc.ConsolidatedXLSX(c.Request.Context(), report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
