package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/example/:index", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/example/:index", "200"))
	for _, path := range []string{"/example/1", "/example/2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/example/:index", "200"))
	assert.Equal(t, before+2, after)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(pidsMinted)
	RecordPIDsMinted(3)
	RecordPIDsMinted(0)
	assert.Equal(t, before+3, testutil.ToFloat64(pidsMinted))

	viewsBefore := testutil.ToFloat64(recordViews.WithLabelValues(ViewNotFound))
	RecordView(ViewNotFound)
	assert.Equal(t, viewsBefore+1, testutil.ToFloat64(recordViews.WithLabelValues(ViewNotFound)))

	SetIndexEntries(12)
	assert.Equal(t, float64(12), testutil.ToFloat64(indexEntries))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordPIDsMinted(1)
	RecordView(ViewFound)
	SetIndexEntries(1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "marcdemo_pids_minted_total ")
	assert.Contains(t, body, `marcdemo_record_views_total{outcome="found"}`)
	assert.Contains(t, body, "marcdemo_index_entries ")
}
