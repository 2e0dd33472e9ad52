package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
)

// RecordIndexer refreshes search index entries.
type RecordIndexer interface {
	IndexRecord(ctx context.Context, recordID string) error
	Reindex(ctx context.Context) (int64, error)
}

// IndexRecordTask refreshes the search index entry of one record.
type IndexRecordTask struct {
	RecordID string `json:"record_id"`
}

// Config returns the queue configuration for record indexing tasks.
func (t IndexRecordTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "index_record",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// IndexRecordProcessor creates a processor function for IndexRecordTask.
func IndexRecordProcessor(indexer RecordIndexer) backlite.QueueProcessor[IndexRecordTask] {
	return func(ctx context.Context, task IndexRecordTask) error {
		if indexer == nil {
			return fmt.Errorf("indexer not configured")
		}
		if err := indexer.IndexRecord(ctx, task.RecordID); err != nil {
			return fmt.Errorf("index record %s: %w", task.RecordID, err)
		}
		return nil
	}
}

// NewIndexRecordQueue creates a backlite queue for record indexing tasks.
func NewIndexRecordQueue(indexer RecordIndexer) backlite.Queue {
	return backlite.NewQueue(IndexRecordProcessor(indexer))
}

// EnqueueIndexing schedules one IndexRecordTask per record id and returns
// the task ids.
func (c *Client) EnqueueIndexing(recordIDs ...string) ([]string, error) {
	if len(recordIDs) == 0 {
		return nil, nil
	}
	batch := make([]backlite.Task, 0, len(recordIDs))
	for _, id := range recordIDs {
		batch = append(batch, IndexRecordTask{RecordID: id})
	}
	ids, err := c.Add(batch...).Save()
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue indexing: %w", err)
	}
	return ids, nil
}
