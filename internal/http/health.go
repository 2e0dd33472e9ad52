package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/marcdemo/internal/database"
	"github.com/mrlokans/marcdemo/internal/database/pidstore"
	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/database/searchindex"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// ReindexStatus reports the state of the scheduled index rebuild.
type ReindexStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}

type DatabaseHealth struct {
	Status  string `json:"status"`
	Dialect string `json:"dialect,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StoreCounts shows how far fixtures and indexing have got.
type StoreCounts struct {
	Records      int64 `json:"records"`
	PIDs         int64 `json:"pids"`
	IndexEntries int64 `json:"index_entries"`
}

type ReindexHealth struct {
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Time     string         `json:"time"`
	Version  string         `json:"version,omitempty"`
	Database DatabaseHealth `json:"database"`
	Counts   *StoreCounts   `json:"counts,omitempty"`
	Reindex  *ReindexHealth `json:"reindex,omitempty"`
}

type HealthController struct {
	db      *database.Database
	reindex ReindexStatus
	version string
}

func NewHealthController(db *database.Database, reindex ReindexStatus, version string) *HealthController {
	return &HealthController{db: db, reindex: reindex, version: version}
}

// Status pings the database and reports store sizes. Missing tables (before
// `db create`) make the service unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  statusHealthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
	}

	if h.db == nil {
		resp.Database.Status = "not configured"
	} else {
		resp.Database.Dialect = h.db.Dialect()
		counts, err := h.counts()
		if err != nil {
			resp.Status = statusUnhealthy
			resp.Database.Status = "error"
			resp.Database.Error = err.Error()
		} else {
			resp.Database.Status = "ok"
			resp.Counts = counts
		}
	}

	if h.reindex != nil {
		resp.Reindex = &ReindexHealth{
			Scheduled: h.reindex.IsRunning(),
			NextRun:   h.reindex.NextRunTime(),
		}
	}

	code := http.StatusOK
	if resp.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) counts() (*StoreCounts, error) {
	if err := h.db.Ping(); err != nil {
		return nil, err
	}

	var counts StoreCounts
	var err error
	if counts.Records, err = records.NewRepository(h.db.DB).Count(); err != nil {
		return nil, err
	}
	if counts.PIDs, err = pidstore.NewRepository(h.db.DB).Count(""); err != nil {
		return nil, err
	}
	if counts.IndexEntries, err = searchindex.NewRepository(h.db.DB).Count(); err != nil {
		return nil, err
	}
	return &counts, nil
}
