package http

import (
	"github.com/gin-gonic/gin/render"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/database"
	"github.com/mrlokans/marcdemo/internal/i18n"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Resolver RecordResolver
	Searcher RecordSearcher
	Audit    AuditLog

	// Presentation
	Renderer   render.HTMLRender
	SiteTitle  string
	StaticPath string

	// Locale selection (both optional)
	SessionManager *i18n.SessionManager
	Negotiator     *i18n.Negotiator

	MetricsEnabled bool

	// Scheduled reindex state for /health (optional)
	Reindex ReindexStatus

	// Application info
	Version string

	Logger logrus.FieldLogger
}
