package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

const queryDateLayout = "2006-01-02"

func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse(queryDateLayout, c.Query("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, invalidRequestError("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(queryDateLayout, c.Query("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, invalidRequestError("end_date must be YYYY-MM-DD")
	}
	// The window is inclusive of the whole end day.
	end = end.Add(24*time.Hour - time.Nanosecond)
	return start, end, nil
}

// @Summary      Consolidated Summary
// @Description  Income and expenses per complex over a period
// @Tags         finances
// @Produce      json
// @Param        start_date  query  string  true  "Period start (YYYY-MM-DD)"
// @Param        end_date    query  string  true  "Period end (YYYY-MM-DD)"
// @Success      200  {object}  DataResponse
// @Router       /finances/consolidated [get]
func (s *Server) GetConsolidatedSummary(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.financeSvc.ConsolidatedSummary(c.Request.Context(), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, report)
}

// @Summary      Complex Finance Summary
// @Description  Current balance, month-to-date flows and pending fees
// @Tags         finances
// @Produce      json
// @Param        id  path  string  true  "Complex ID"
// @Success      200  {object}  DataResponse
// @Router       /complexes/{id}/finances/summary [get]
func (s *Server) GetComplexFinanceSummary(c *gin.Context) {
	complex, err := s.tenantSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.financeSvc.Summary(c.Request.Context(), complex.SchemaName)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

// @Summary      Recent Transactions
// @Description  Latest completed payments and paid expenses, merged
// @Tags         finances
// @Produce      json
// @Param        id  path  string  true  "Complex ID"
// @Success      200  {object}  DataResponse
// @Router       /complexes/{id}/finances/transactions [get]
func (s *Server) GetRecentTransactions(c *gin.Context) {
	complex, err := s.tenantSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	transactions, err := s.financeSvc.RecentTransactions(c.Request.Context(), complex.SchemaName)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, transactions)
}
