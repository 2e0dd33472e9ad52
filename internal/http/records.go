package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/marcdemo/internal/database/pidstore"
	"github.com/mrlokans/marcdemo/internal/database/searchindex"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/i18n"
	"github.com/mrlokans/marcdemo/internal/metrics"
	"github.com/mrlokans/marcdemo/internal/theme"
)

const maxSearchLimit = 100

// RecordResponse is the JSON form of a resolved record.
type RecordResponse struct {
	PID       *entities.PersistentIdentifier `json:"pid"`
	ID        string                         `json:"id,omitempty"`
	VersionID int                            `json:"version_id,omitempty"`
	Metadata  entities.RecordJSON            `json:"metadata"`
}

type SearchResponse struct {
	Query string                      `json:"query"`
	Total int                         `json:"total"`
	Hits  []entities.RecordIndexEntry `json:"hits"`
}

type RecordsController struct {
	resolver   RecordResolver
	searcher   RecordSearcher
	negotiator *i18n.Negotiator
	siteTitle  string
}

func NewRecordsController(resolver RecordResolver, searcher RecordSearcher, negotiator *i18n.Negotiator, siteTitle string) *RecordsController {
	return &RecordsController{
		resolver:   resolver,
		searcher:   searcher,
		negotiator: negotiator,
		siteTitle:  siteTitle,
	}
}

// Detail renders the record behind exactly one PID. No match is a 404,
// several matches are a server error, and a PID without a record renders
// an empty record.
func (rc *RecordsController) Detail(c *gin.Context) {
	value := c.Param("index")

	pid, record, err := rc.resolver.Resolve(value)
	if err != nil {
		rc.detailError(c, value, err)
		return
	}

	metrics.RecordView(metrics.ViewFound)
	c.HTML(http.StatusOK, theme.DetailTemplate, rc.page(c, gin.H{
		"record": recordContent(record),
		"pid":    pid,
	}))
}

func (rc *RecordsController) detailError(c *gin.Context, value string, err error) {
	log := requestLogger(c).WithField("pid", value)

	switch {
	case errors.Is(err, pidstore.ErrPIDNotFound):
		metrics.RecordView(metrics.ViewNotFound)
		rc.renderError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, pidstore.ErrPIDMultipleResults):
		metrics.RecordView(metrics.ViewAmbiguous)
		log.WithError(err).Error("Identifier resolves to several records")
		rc.renderError(c, http.StatusInternalServerError, "Internal server error")
	default:
		metrics.RecordView(metrics.ViewError)
		log.WithError(err).Error("Failed to resolve identifier")
		rc.renderError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// GetRecord returns the record behind a PID as JSON, with the same lookup
// rules as Detail.
func (rc *RecordsController) GetRecord(c *gin.Context) {
	value := c.Param("pid")

	pid, record, err := rc.resolver.Resolve(value)
	switch {
	case errors.Is(err, pidstore.ErrPIDNotFound):
		respondNotFound(c, "record")
		return
	case err != nil:
		respondInternalError(c, err, "resolve pid "+value)
		return
	}

	response := RecordResponse{PID: pid, Metadata: recordContent(record)}
	if record != nil {
		response.ID = record.ID
		response.VersionID = record.VersionID
	}
	c.JSON(http.StatusOK, response)
}

// Search runs a case-insensitive text query against the index.
func (rc *RecordsController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	limit, ok := parseLimitQuery(c, "limit", searchindex.DefaultLimit, maxSearchLimit)
	if !ok {
		return
	}

	hits, err := rc.searcher.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondInternalError(c, err, "search")
		return
	}
	if hits == nil {
		hits = []entities.RecordIndexEntry{}
	}

	c.JSON(http.StatusOK, SearchResponse{Query: query, Total: len(hits), Hits: hits})
}

func (rc *RecordsController) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, theme.ErrorTemplate, rc.page(c, gin.H{
		"status":  status,
		"message": message,
	}))
}

// page adds the values every template expects.
func (rc *RecordsController) page(c *gin.Context, data gin.H) gin.H {
	data["title"] = rc.siteTitle

	locale := i18n.Locale(c)
	if rc.negotiator != nil {
		if locale == "" {
			locale = rc.negotiator.Default()
		}
		data["languages"] = rc.negotiator.Languages()
	}
	data["locale"] = locale
	return data
}

func recordContent(record *entities.RecordMetadata) entities.RecordJSON {
	if record == nil || record.JSON == nil {
		return entities.RecordJSON{}
	}
	return record.JSON
}
