// Package searchindex stores the flattened form of records used by search.
package searchindex

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/marcdemo/internal/entities"
)

const DefaultLimit = 20

// Repository handles search index database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new search index repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the entry or replaces the one indexed for the same record.
func (r *Repository) Upsert(entry *entities.RecordIndexEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_id"}},
		UpdateAll: true,
	}).Create(entry).Error
}

// Delete removes the entry of a record, if any.
func (r *Repository) Delete(recordID string) error {
	return r.db.Where("record_id = ?", recordID).Delete(&entities.RecordIndexEntry{}).Error
}

// Clear removes every entry.
func (r *Repository) Clear() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.RecordIndexEntry{}).Error
}

// likeEscaper makes user input match literally inside a LIKE pattern. The
// escape character is '!' because backslash is itself special in MySQL
// string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search returns entries whose title, authors or content contain query
// (case-insensitive). An empty query lists entries by title.
func (r *Repository) Search(query string, limit int) ([]entities.RecordIndexEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := r.db.Model(&entities.RecordIndexEntry{})
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(authors) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	}

	var entries []entities.RecordIndexEntry
	err := q.Order("title ASC, record_id ASC").Limit(limit).Find(&entries).Error
	return entries, err
}

// Count returns the number of indexed records.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.RecordIndexEntry{}).Count(&count).Error
	return count, err
}
