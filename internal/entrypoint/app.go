package entrypoint

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/assets"
	"github.com/mrlokans/marcdemo/internal/audit"
	"github.com/mrlokans/marcdemo/internal/config"
	"github.com/mrlokans/marcdemo/internal/database"
	auditrepo "github.com/mrlokans/marcdemo/internal/database/audit"
	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/fixtures"
	"github.com/mrlokans/marcdemo/internal/pids"
	"github.com/mrlokans/marcdemo/internal/search"
	"github.com/mrlokans/marcdemo/internal/tasks"
)

// App holds the dependencies shared by the server and the CLI commands.
type App struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *database.Database
	Indexer *search.Indexer
	Assets  *assets.Environment
	Audit   *audit.Service
}

// NewApp validates the configuration and opens the database.
func NewApp(cfg *config.Config, log *logrus.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(cfg.Database.URI,
		database.WithLogger(log),
		database.WithDebug(cfg.Global.Debug && log.IsLevelEnabled(logrus.DebugLevel)),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Indexer: search.NewIndexer(db.DB, log.WithField("component", "search")),
		Assets:  assets.NewDefaultEnvironment(cfg.Theme.StaticPath, cfg.Assets.OutputDir),
		Audit:   audit.NewService(auditrepo.NewRepository(db.DB), log.WithField("component", "audit")),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// NewTaskClient opens the task queue with every application queue
// registered. Returns nil when tasks are disabled.
func (a *App) NewTaskClient() (*tasks.Client, error) {
	if !a.Config.Tasks.Enabled {
		return nil, nil
	}

	client, err := tasks.NewClient(a.Config.Tasks.DatabasePath, tasks.Config{
		Workers:         a.Config.Tasks.Workers,
		ReleaseAfter:    a.Config.Tasks.ReleaseAfter,
		CleanupInterval: a.Config.Tasks.CleanupInterval,
	}, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}

	client.Register(
		tasks.NewIndexRecordQueue(a.Indexer),
		tasks.NewReindexAllQueue(a.Indexer, a.Log),
	)
	return client, nil
}

// NewFixtureLoader returns a loader whose committed records are indexed
// through the task queue when one is given, and inline otherwise.
func (a *App) NewFixtureLoader(taskClient *tasks.Client) *fixtures.Loader {
	log := a.Log.WithField("component", "fixtures")
	loader := fixtures.NewLoader(a.DB.DB, pids.NewRecidMinter(a.Config.PIDStore.RecidStart), log)

	loader.OnCommit(func(ctx context.Context, minted []entities.PersistentIdentifier) {
		ids := make([]string, 0, len(minted))
		for _, pid := range minted {
			ids = append(ids, pid.ObjectUUID)
		}

		if taskClient != nil {
			if _, err := taskClient.EnqueueIndexing(ids...); err != nil {
				log.WithError(err).Warn("Failed to enqueue indexing, run 'marcdemo index reindex'")
			}
			return
		}

		for _, id := range ids {
			if err := a.Indexer.IndexRecord(ctx, id); err != nil {
				log.WithError(err).WithField("record_id", id).Warn("Failed to index record")
			}
		}
	})
	return loader
}

// LoadFixtures mints identifiers for every record and records the outcome
// in the audit log.
func (a *App) LoadFixtures(ctx context.Context, taskClient *tasks.Client) ([]entities.PersistentIdentifier, error) {
	minted, err := a.NewFixtureLoader(taskClient).LoadRecords(ctx)
	a.Audit.LogOperation(entities.AuditEventFixtures, "fixtures_records",
		fmt.Sprintf("Minted %d record identifiers", len(minted)),
		map[string]any{"count": len(minted)}, err)
	return minted, err
}

// ImportRecords stores new records in one transaction.
func (a *App) ImportRecords(docs []entities.RecordJSON, source string) ([]entities.RecordMetadata, error) {
	created, err := records.NewRepository(a.DB.DB).CreateMany(docs)
	a.Audit.LogOperation(entities.AuditEventImport, "records_create",
		fmt.Sprintf("Created %d records from %s", len(created), source),
		map[string]any{"count": len(created), "source": source}, err)
	return created, err
}

// ReindexNow rebuilds the search index in the calling goroutine.
func (a *App) ReindexNow(ctx context.Context) (int64, error) {
	count, err := a.Indexer.Reindex(ctx)
	a.Audit.LogOperation(entities.AuditEventIndex, "reindex",
		fmt.Sprintf("Indexed %d records", count),
		map[string]any{"count": count}, err)
	return count, err
}

// Reindex rebuilds the search index, in the background when a task queue
// is available.
func (a *App) Reindex(ctx context.Context, taskClient *tasks.Client) error {
	if taskClient != nil {
		if _, err := taskClient.Add(tasks.ReindexAllTask{}).Save(); err != nil {
			return fmt.Errorf("failed to enqueue reindex: %w", err)
		}
		return nil
	}

	count, err := a.ReindexNow(ctx)
	if err != nil {
		return err
	}
	a.Log.WithField("count", count).Info("Reindexed records")
	return nil
}

// PruneAudit drops audit events past the configured retention.
func (a *App) PruneAudit() {
	if a.Config.Audit.Retention <= 0 {
		return
	}
	deleted, err := a.Audit.DeleteOldEvents(a.Config.Audit.Retention)
	if err != nil {
		a.Log.WithError(err).Warn("Failed to prune audit events")
		return
	}
	if deleted > 0 {
		a.Log.WithField("count", deleted).Info("Pruned audit events")
	}
}
