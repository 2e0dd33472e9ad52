package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(SecurityHeaders())

	if cfg.MetricsEnabled {
		router.Use(metrics.Middleware())
	}

	// Session must be loaded before the locale middleware reads it
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.Negotiator != nil {
		router.Use(cfg.Negotiator.Middleware(cfg.SessionManager))
	}

	if cfg.Renderer != nil {
		router.HTMLRender = cfg.Renderer
	}

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Reindex, cfg.Version)
	records := NewRecordsController(cfg.Resolver, cfg.Searcher, cfg.Negotiator, cfg.SiteTitle)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Record pages
	router.GET("/example/:index", records.Detail)

	// Records API
	router.GET("/api/records/:pid", records.GetRecord)
	if cfg.Searcher != nil {
		router.GET("/api/search", records.Search)
	}

	if cfg.Audit != nil {
		audit := NewAuditController(cfg.Audit)
		router.GET("/api/audit", audit.List)
	}

	return router
}
