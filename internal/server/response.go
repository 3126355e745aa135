package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DataResponse is the envelope every successful endpoint returns.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the envelope every failed endpoint returns.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
