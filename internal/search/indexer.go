// Package search keeps a flattened copy of every record for lookup by text.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/database/pidstore"
	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/database/searchindex"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/marc21"
	"github.com/mrlokans/marcdemo/internal/metrics"
)

const reindexBatchSize = 200

// Indexer maintains the search index.
type Indexer struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewIndexer(db *gorm.DB, log logrus.FieldLogger) *Indexer {
	return &Indexer{db: db, log: log}
}

// IndexRecord refreshes the entry of one record, removing it when the
// record no longer exists.
func (i *Indexer) IndexRecord(ctx context.Context, recordID string) error {
	db := i.db.WithContext(ctx)

	record, err := records.NewRepository(db).GetByID(recordID)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", recordID, err)
	}

	repo := searchindex.NewRepository(db)
	if record == nil {
		return repo.Delete(recordID)
	}

	entry, err := buildEntry(db, record)
	if err != nil {
		return err
	}
	return repo.Upsert(entry)
}

// Reindex rebuilds the whole index in one transaction and returns the
// number of indexed records.
func (i *Indexer) Reindex(ctx context.Context) (int64, error) {
	var indexed int64
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := searchindex.NewRepository(tx)
		if err := repo.Clear(); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}

		return records.NewRepository(tx).FindInBatches(reindexBatchSize, func(batch []entities.RecordMetadata) error {
			for idx := range batch {
				entry, err := buildEntry(tx, &batch[idx])
				if err != nil {
					return err
				}
				if err := repo.Upsert(entry); err != nil {
					return fmt.Errorf("failed to index record %s: %w", batch[idx].ID, err)
				}
				indexed++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	metrics.SetIndexEntries(indexed)
	i.log.WithField("count", indexed).Info("Search index rebuilt")
	return indexed, nil
}

// Search returns index entries matching query.
func (i *Indexer) Search(ctx context.Context, query string, limit int) ([]entities.RecordIndexEntry, error) {
	return searchindex.NewRepository(i.db.WithContext(ctx)).Search(query, limit)
}

func buildEntry(db *gorm.DB, record *entities.RecordMetadata) (*entities.RecordIndexEntry, error) {
	pids, err := pidstore.NewRepository(db).ListForObject(entities.ObjectTypeRecord, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load identifiers of record %s: %w", record.ID, err)
	}

	var pidValue string
	for _, pid := range pids {
		if pid.PIDType == entities.PIDTypeRecid {
			pidValue = pid.PIDValue
			break
		}
	}

	view := marc21.NewView(record.JSON)
	return &entities.RecordIndexEntry{
		RecordID:  record.ID,
		PIDValue:  pidValue,
		Title:     view.Title,
		Authors:   strings.Join(view.Authors, "; "),
		Content:   Flatten(record.JSON),
		IndexedAt: time.Now(),
	}, nil
}

// Flatten joins every scalar leaf of a record into one lowercase string.
func Flatten(record entities.RecordJSON) string {
	var parts []string
	var walk func(r gjson.Result)
	walk = func(r gjson.Result) {
		if r.IsObject() || r.IsArray() {
			r.ForEach(func(_, v gjson.Result) bool {
				walk(v)
				return true
			})
			return
		}
		if s := strings.TrimSpace(r.String()); s != "" {
			parts = append(parts, s)
		}
	}
	walk(gjson.ParseBytes(record.Bytes()))
	return strings.ToLower(strings.Join(parts, " "))
}
