// Package fixtures loads demo data into an existing database.
package fixtures

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/metrics"
	"github.com/mrlokans/marcdemo/internal/pids"
)

// CommitHook runs after minted identifiers have been committed.
type CommitHook func(ctx context.Context, minted []entities.PersistentIdentifier)

// Loader mints identifiers for records that are already stored.
type Loader struct {
	db       *gorm.DB
	minter   pids.Minter
	log      logrus.FieldLogger
	onCommit CommitHook
}

func NewLoader(db *gorm.DB, minter pids.Minter, log logrus.FieldLogger) *Loader {
	return &Loader{db: db, minter: minter, log: log}
}

// OnCommit registers a hook that sees every committed batch.
func (l *Loader) OnCommit(hook CommitHook) {
	l.onCommit = hook
}

// LoadRecords mints one identifier per stored record. All mintings run in
// a nested transaction; the outer transaction commits only when every
// minting succeeded, otherwise nothing is written.
func (l *Loader) LoadRecords(ctx context.Context) ([]entities.PersistentIdentifier, error) {
	var minted []entities.PersistentIdentifier

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Transaction(func(nested *gorm.DB) error {
			all, err := records.NewRepository(nested).All()
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			for _, record := range all {
				pid, err := l.minter.Mint(nested, record.ID, record.JSON)
				if err != nil {
					return fmt.Errorf("failed to mint identifier for record %s: %w", record.ID, err)
				}
				minted = append(minted, *pid)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPIDsMinted(len(minted))
	l.log.WithField("count", len(minted)).Debug("Minted record identifiers")

	if l.onCommit != nil && len(minted) > 0 {
		l.onCommit(ctx, minted)
	}
	return minted, nil
}
