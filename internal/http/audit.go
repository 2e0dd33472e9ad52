package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/marcdemo/internal/entities"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

var auditEventTypes = map[entities.AuditEventType]bool{
	entities.AuditEventFixtures: true,
	entities.AuditEventImport:   true,
	entities.AuditEventIndex:    true,
	entities.AuditEventSchema:   true,
}

type AuditResponse struct {
	Events []entities.AuditEvent `json:"events"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type AuditController struct {
	log AuditLog
}

func NewAuditController(log AuditLog) *AuditController {
	return &AuditController{log: log}
}

// List returns audit events, most recent first.
// Query params: type (optional), limit, offset.
func (ac *AuditController) List(c *gin.Context) {
	eventType := entities.AuditEventType(c.Query("type"))
	if eventType != "" && !auditEventTypes[eventType] {
		respondBadRequest(c, "unknown event type")
		return
	}

	limit, ok := parseLimitQuery(c, "limit", defaultAuditLimit, maxAuditLimit)
	if !ok {
		return
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "invalid offset")
			return
		}
		offset = n
	}

	events, total, err := ac.log.GetEvents(eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, AuditResponse{Events: events, Total: total, Limit: limit, Offset: offset})
}
