// Package pidstore provides storage for persistent identifiers and the
// recid sequence they are minted from.
package pidstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/entities"
)

var (
	// ErrPIDNotFound is returned when no identifier matches a lookup.
	ErrPIDNotFound = errors.New("persistent identifier not found")

	// ErrPIDMultipleResults is returned when a lookup that must match
	// exactly one identifier matches several.
	ErrPIDMultipleResults = errors.New("multiple persistent identifiers match")
)

// Repository handles persistent identifier database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PID repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ResolveOne returns the only identifier whose value equals value, across
// all PID types. Zero matches yield ErrPIDNotFound and more than one
// ErrPIDMultipleResults.
func (r *Repository) ResolveOne(value string) (*entities.PersistentIdentifier, error) {
	var found []entities.PersistentIdentifier
	if err := r.db.Where("pid_value = ?", value).Order("id ASC").Limit(2).Find(&found).Error; err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrPIDNotFound, value)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrPIDMultipleResults, value)
	}
}

// ListForObject returns every identifier assigned to an object.
func (r *Repository) ListForObject(objectType, objectUUID string) ([]entities.PersistentIdentifier, error) {
	var pids []entities.PersistentIdentifier
	err := r.db.Where("object_type = ? AND object_uuid = ?", objectType, objectUUID).
		Order("id ASC").Find(&pids).Error
	return pids, err
}

// Create stores a new identifier. New identifiers default to status N.
func (r *Repository) Create(pid *entities.PersistentIdentifier) error {
	if pid.Status == "" {
		pid.Status = entities.PIDStatusNew
	}
	return r.db.Create(pid).Error
}

// Count returns the number of identifiers of the given type, or of all
// types when pidType is empty.
func (r *Repository) Count(pidType string) (int64, error) {
	var count int64
	q := r.db.Model(&entities.PersistentIdentifier{})
	if pidType != "" {
		q = q.Where("pid_type = ?", pidType)
	}
	err := q.Count(&count).Error
	return count, err
}

// NextRecid reserves the next value of the recid sequence. The sequence
// never goes below start.
func (r *Repository) NextRecid(start uint) (uint, error) {
	var last entities.RecordIdentifier
	if err := r.db.Order("recid DESC").Limit(1).Find(&last).Error; err != nil {
		return 0, fmt.Errorf("failed to read recid sequence: %w", err)
	}

	next := last.Recid + 1
	if next < start {
		next = start
	}

	row := entities.RecordIdentifier{Recid: next}
	if err := r.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to reserve recid %d: %w", next, err)
	}
	return row.Recid, nil
}
