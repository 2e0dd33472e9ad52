package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// ReindexAllTask rebuilds the search index from every stored record.
type ReindexAllTask struct{}

// Config returns the queue configuration for full reindexing.
func (t ReindexAllTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reindex_all",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReindexAllProcessor creates a processor function for ReindexAllTask.
func ReindexAllProcessor(indexer RecordIndexer, log logrus.FieldLogger) backlite.QueueProcessor[ReindexAllTask] {
	return func(ctx context.Context, task ReindexAllTask) error {
		if indexer == nil {
			return fmt.Errorf("indexer not configured")
		}

		count, err := indexer.Reindex(ctx)
		if err != nil {
			return fmt.Errorf("reindex: %w", err)
		}

		log.WithField("count", count).Info("[TASK] Reindexed records")
		return nil
	}
}

// NewReindexAllQueue creates a backlite queue for full reindexing.
func NewReindexAllQueue(indexer RecordIndexer, log logrus.FieldLogger) backlite.Queue {
	return backlite.NewQueue(ReindexAllProcessor(indexer, log))
}
