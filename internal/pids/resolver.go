package pids

import (
	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/database/pidstore"
	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/entities"
)

// Resolver turns an external identifier into the record it points to.
type Resolver struct {
	pids    *pidstore.Repository
	records *records.Repository
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		pids:    pidstore.NewRepository(db),
		records: records.NewRepository(db),
	}
}

// Resolve looks up exactly one identifier with the given value, then the
// first record referenced by it. The record is nil when the identifier
// points at nothing; that is not an error.
func (r *Resolver) Resolve(value string) (*entities.PersistentIdentifier, *entities.RecordMetadata, error) {
	pid, err := r.pids.ResolveOne(value)
	if err != nil {
		return nil, nil, err
	}

	record, err := r.records.GetByID(pid.ObjectUUID)
	if err != nil {
		return pid, nil, err
	}
	return pid, record, nil
}
