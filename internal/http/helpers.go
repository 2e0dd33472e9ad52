package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContextKeyLogger holds the request-scoped logger set by RequestLogger.
const ContextKeyLogger = "logger"

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	requestLogger(c).WithError(err).WithField("context", context).Error("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Parameter Parsing ---

// parseLimitQuery reads an optional positive integer query parameter.
// Returns the fallback when absent, or responds with a 400 error and returns 0, false.
func parseLimitQuery(c *gin.Context, name string, fallback, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	if n > max {
		n = max
	}
	return n, true
}

// requestLogger returns the logger attached by RequestLogger, or the
// standard logger outside of it.
func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(ContextKeyLogger); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
