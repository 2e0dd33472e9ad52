// Package audit keeps a history of maintenance operations.
package audit

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/database/audit"
	"github.com/mrlokans/marcdemo/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	log  logrus.FieldLogger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// LogOperation records the outcome of an operation. Failures to write the
// event are logged and otherwise ignored so they never mask err.
func (s *Service) LogOperation(eventType entities.AuditEventType, action, description string, metadata map[string]any, err error) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if len(metadata) > 0 {
		if mdBytes, e := json.Marshal(metadata); e == nil {
			event.Metadata = string(mdBytes)
		}
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if e := s.repo.LogEvent(event); e != nil {
		s.log.WithError(e).WithField("action", action).Warn("Failed to log audit event")
	}
}

// GetEvents retrieves paginated audit events, optionally of one type.
func (s *Service) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a UTF-8
// sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - len("...")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
