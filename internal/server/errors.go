package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
)

// APIError is the wire shape of a request failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e APIError) Error() string { return e.Message }

func invalidRequestError(message string) APIError {
	if message == "" {
		message = "invalid request"
	}
	return APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: message}
}

// AbortWithError maps domain errors onto HTTP statuses and writes the
// error envelope. Unrecognized errors become opaque 500s; the detail goes
// to the log, not the wire.
func AbortWithError(c *gin.Context, err error) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		abort(c, apiErr)
		return
	}

	switch {
	case errors.Is(err, tenantdomain.ErrComplexNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, rollupdomain.ErrRollupNotFound):
		abort(c, APIError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()})
	case errors.Is(err, tenantdomain.ErrInvalidComplex),
		errors.Is(err, tenantdomain.ErrInvalidSchemaName),
		errors.Is(err, plandomain.ErrInvalidPlan),
		errors.Is(err, plandomain.ErrInvalidBillingCycle),
		errors.Is(err, financedomain.ErrInvalidDateRange):
		abort(c, APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: err.Error()})
	default:
		_ = c.Error(err)
		abort(c, APIError{Status: http.StatusInternalServerError, Code: "internal", Message: "internal server error"})
	}
}

func abort(c *gin.Context, apiErr APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}
