// Package records provides storage for record metadata documents.
//
// # Usage
//
//	repo := records.NewRepository(db)
//	record, err := repo.GetByID(pid.ObjectUUID)
package records

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/entities"
)

var ErrRecordNotFound = errors.New("record not found")

// Repository handles record metadata database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new records repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns the first record with the given id, or nil when there is none.
func (r *Repository) GetByID(id string) (*entities.RecordMetadata, error) {
	var found []entities.RecordMetadata
	if err := r.db.Where("id = ?", id).Limit(1).Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// All returns every record, oldest first.
func (r *Repository) All() ([]entities.RecordMetadata, error) {
	var all []entities.RecordMetadata
	err := r.db.Order("created_at ASC, id ASC").Find(&all).Error
	return all, err
}

// Create stores a new record with a freshly generated UUID.
func (r *Repository) Create(data entities.RecordJSON) (*entities.RecordMetadata, error) {
	if data == nil {
		data = entities.RecordJSON{}
	}
	record := &entities.RecordMetadata{
		ID:        uuid.NewString(),
		JSON:      data,
		VersionID: 1,
	}
	if err := r.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return record, nil
}

// CreateMany stores all documents in one transaction.
func (r *Repository) CreateMany(docs []entities.RecordJSON) ([]entities.RecordMetadata, error) {
	created := make([]entities.RecordMetadata, 0, len(docs))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		for i, doc := range docs {
			record, err := repo.Create(doc)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			created = append(created, *record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces the content of a record and bumps its version.
func (r *Repository) Update(id string, data entities.RecordJSON) error {
	result := r.db.Model(&entities.RecordMetadata{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"json":       data,
			"version_id": gorm.Expr("version_id + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

// Count returns the number of stored records.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.RecordMetadata{}).Count(&count).Error
	return count, err
}

// FindInBatches walks all records in id order, batchSize at a time.
func (r *Repository) FindInBatches(batchSize int, fn func(batch []entities.RecordMetadata) error) error {
	var batch []entities.RecordMetadata
	result := r.db.FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return result.Error
}
