package http

import (
	"context"

	"github.com/mrlokans/marcdemo/internal/entities"
)

// RecordResolver finds the identifier and record behind a PID value.
type RecordResolver interface {
	Resolve(value string) (*entities.PersistentIdentifier, *entities.RecordMetadata, error)
}

// RecordSearcher queries the search index.
type RecordSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]entities.RecordIndexEntry, error)
}

// AuditLog lists recorded maintenance operations.
type AuditLog interface {
	GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}
