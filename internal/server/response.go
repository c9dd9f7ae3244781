package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spigell/hire-pipeline/internal/recruiting"
)

const (
	codeBadRequest    = "BAD_REQUEST"
	codeUnauthorized  = "UNAUTHORIZED"
	codeNotFound      = "NOT_FOUND"
	codeUpstreamError = "UPSTREAM_ERROR"
)

// Envelope wraps all API responses in a consistent structure.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, codeBadRequest, message)
}

// upstream maps a recruiting backend failure onto a response.
func upstream(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recruiting.ErrNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.Is(err, recruiting.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, codeUnauthorized, "recruiting backend rejected the api token")
	default:
		fail(c, http.StatusBadGateway, codeUpstreamError, "recruiting backend request failed")
	}
	_ = c.Error(err)
}
