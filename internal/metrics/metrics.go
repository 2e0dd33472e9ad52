package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marcdemo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marcdemo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	pidsMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marcdemo",
			Name:      "pids_minted_total",
			Help:      "Total number of persistent identifiers committed by minting.",
		},
	)

	recordViews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marcdemo",
			Name:      "record_views_total",
			Help:      "Record detail page lookups by outcome.",
		},
		[]string{"outcome"},
	)

	indexEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marcdemo",
			Name:      "index_entries",
			Help:      "Number of records in the search index after the last reindex.",
		},
	)
)

// View outcomes.
const (
	ViewFound     = "found"
	ViewNotFound  = "not_found"
	ViewAmbiguous = "ambiguous"
	ViewError     = "error"
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		pidsMinted,
		recordViews,
		indexEntries,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies by route template, so
// /example/1 and /example/2 share one series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordPIDsMinted(n int) {
	if n > 0 {
		pidsMinted.Add(float64(n))
	}
}

func RecordView(outcome string) {
	recordViews.WithLabelValues(outcome).Inc()
}

func SetIndexEntries(n int64) {
	indexEntries.Set(float64(n))
}
