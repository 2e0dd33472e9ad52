package entrypoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/config"
	http_controllers "github.com/mrlokans/marcdemo/internal/http"
	"github.com/mrlokans/marcdemo/internal/i18n"
	"github.com/mrlokans/marcdemo/internal/pids"
	"github.com/mrlokans/marcdemo/internal/scheduler"
	"github.com/mrlokans/marcdemo/internal/theme"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			if onShutdown != nil {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				onShutdown(ctx)
			}
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}

	log.WithField("timeout", timeout).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so nothing is enqueued against a closed server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires every component and serves until interrupted.
func Run(cfg *config.Config, log *logrus.Logger, version string) error {
	log.WithField("version", version).Info("Starting marcdemo")

	if !cfg.Global.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("Error closing database")
		}
	}()

	if err := app.DB.Migrate(); err != nil {
		return err
	}
	app.PruneAudit()

	if _, err := app.Assets.Build(); err != nil {
		log.WithError(err).Warn("Failed to build assets, pages will render without styles")
	}

	taskClient, err := app.NewTaskClient()
	if err != nil {
		return err
	}
	// Cancelling stops the task workers and the scheduler's context monitor
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if taskClient != nil {
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing task client")
			}
		}()
		go taskClient.Start(bgCtx)
	}

	reindexScheduler := scheduler.NewReindexScheduler(cfg.Search.ReindexSchedule, func(ctx context.Context) error {
		return app.Reindex(ctx, taskClient)
	}, log)
	if err := reindexScheduler.Start(bgCtx); err != nil {
		return err
	}
	defer reindexScheduler.Stop()

	// Locale sessions share the records database when it is SQLite
	var sessionDB *sql.DB
	if app.DB.SQLitePath() != "" {
		sessionDB, err = app.DB.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
	}
	sessionManager, err := i18n.NewSessionManager(sessionDB, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	negotiator, err := i18n.NewNegotiator(cfg.I18N.DefaultLocale, cfg.I18N.Languages)
	if err != nil {
		return err
	}

	renderer, err := theme.New(theme.Options{
		Dir:          cfg.Theme.TemplatesPath,
		BaseTemplate: cfg.Theme.BaseTemplate,
		Funcs:        theme.Funcs(app.Assets, i18n.NewTranslator(), log),
		Reload:       cfg.Global.Debug && cfg.Theme.TemplatesPath != "",
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       app.DB,
		Resolver:       pids.NewResolver(app.DB.DB),
		Searcher:       app.Indexer,
		Audit:          app.Audit,
		Reindex:        reindexScheduler,
		Renderer:       renderer,
		SiteTitle:      cfg.Theme.SiteTitle,
		StaticPath:     cfg.Theme.StaticPath,
		SessionManager: sessionManager,
		Negotiator:     negotiator,
		MetricsEnabled: cfg.Metrics.Enabled,
		Version:        version,
		Logger:         log,
	})

	onShutdown := func(ctx context.Context) {
		reindexScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		bgCancel()
	}

	return Serve(router, cfg, log, onShutdown)
}
