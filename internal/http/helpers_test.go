package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLimitQuery(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		want     int
		wantOK   bool
		wantCode int
	}{
		{"absent uses fallback", "/", 20, true, http.StatusOK},
		{"valid", "/?limit=5", 5, true, http.StatusOK},
		{"capped", "/?limit=1000", 100, true, http.StatusOK},
		{"zero", "/?limit=0", 0, false, http.StatusBadRequest},
		{"negative", "/?limit=-3", 0, false, http.StatusBadRequest},
		{"not a number", "/?limit=abc", 0, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			got, ok := parseLimitQuery(c, "limit", 20, 100)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	logger, hook := test.NewNullLogger()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(ContextKeyLogger, logrus.FieldLogger(logger))

	respondInternalError(c, errors.New("connection refused on 10.0.0.1"), "lookup")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
	assert.Contains(t, w.Body.String(), "internal server error")

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, "lookup", entry.Data["context"])
	}
}

func TestRespondNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondNotFound(c, "record")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"record not found","code":"not_found"}`, w.Body.String())
}

func TestRequestLoggerFallback(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.Equal(t, logrus.StandardLogger(), requestLogger(c))
}
