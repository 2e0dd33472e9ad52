package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/gin-gonic/gin/render"

	"github.com/mrlokans/marcdemo/internal/audit"
	"github.com/mrlokans/marcdemo/internal/http"
	"github.com/mrlokans/marcdemo/internal/pids"
	"github.com/mrlokans/marcdemo/internal/search"
	"github.com/mrlokans/marcdemo/internal/tasks"
	"github.com/mrlokans/marcdemo/internal/theme"
)

// =============================================================================
// Record Lookup
// =============================================================================

var _ http.RecordResolver = (*pids.Resolver)(nil)

var _ pids.Minter = (*pids.RecidMinter)(nil)
var _ pids.Minter = pids.MinterFunc(nil)

// =============================================================================
// Search Index
// =============================================================================

var _ http.RecordSearcher = (*search.Indexer)(nil)

// RecordIndexer is what the background queues call into
var _ tasks.RecordIndexer = (*search.Indexer)(nil)

// =============================================================================
// Operations Log
// =============================================================================

var _ http.AuditLog = (*audit.Service)(nil)

// =============================================================================
// Presentation
// =============================================================================

var _ render.HTMLRender = (*theme.Renderer)(nil)
