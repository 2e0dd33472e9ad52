package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Theme
		Assets
		I18N
		Session
		Tasks
		Search
		Metrics
		PIDStore
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		Debug                    bool
		LogLevel                 string
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URI string // SQLALCHEMY_DATABASE_URI
	}
	Theme struct {
		BaseTemplate  string // APP_BASE_TEMPLATE
		TemplatesPath string // Empty means the embedded templates
		StaticPath    string
		SiteTitle     string
	}
	Assets struct {
		OutputDir string // Relative to Theme.StaticPath
	}
	I18N struct {
		DefaultLocale string
		Languages     []string
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Search struct {
		ReindexSchedule string // Cron format, empty disables scheduled reindexing
	}
	Metrics struct {
		Enabled bool
	}
	PIDStore struct {
		RecidStart uint
	}
	Audit struct {
		Retention time.Duration // Zero keeps events forever
	}
)

var (
	ErrEmptyDatabaseURI = errors.New("SQLALCHEMY_DATABASE_URI is empty")
	ErrInvalidPort      = errors.New("invalid port")
)

var supportedSchemes = []string{"sqlite", "postgres", "postgresql", "mysql"}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("sqlalchemy_database_uri", DefaultDatabaseURI)
	v.SetDefault("app_base_template", DefaultBaseTemplate)
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("debug", true)
	v.SetDefault("log_level", "")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./static")
	v.SetDefault("site_title", DefaultSiteTitle)
	v.SetDefault("assets_output_dir", "gen")

	// i18n defaults
	v.SetDefault("babel_default_locale", "en")
	v.SetDefault("i18n_languages", "en,de,fr")

	// Session defaults
	v.SetDefault("session_lifetime", "720h")
	v.SetDefault("session_secure_cookies", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("search_reindex_schedule", "")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("pidstore_recid_start", 1)
	v.SetDefault("audit_retention", "2160h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Debug:                    v.GetBool("DEBUG"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URI: v.GetString("SQLALCHEMY_DATABASE_URI"),
		},
		Theme: Theme{
			BaseTemplate:  v.GetString("APP_BASE_TEMPLATE"),
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
			SiteTitle:     v.GetString("SITE_TITLE"),
		},
		Assets: Assets{
			OutputDir: v.GetString("ASSETS_OUTPUT_DIR"),
		},
		I18N: I18N{
			DefaultLocale: v.GetString("BABEL_DEFAULT_LOCALE"),
			Languages:     splitList(v.GetString("I18N_LANGUAGES")),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Search: Search{
			ReindexSchedule: v.GetString("SEARCH_REINDEX_SCHEDULE"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		PIDStore: PIDStore{
			RecidStart: v.GetUint("PIDSTORE_RECID_START"),
		},
		Audit: Audit{
			Retention: v.GetDuration("AUDIT_RETENTION"),
		},
	}
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URI) == "" {
		return ErrEmptyDatabaseURI
	}
	scheme, _, found := strings.Cut(c.Database.URI, "://")
	if !found {
		return fmt.Errorf("database uri %q has no scheme", c.Database.URI)
	}
	// SQLAlchemy-style "driver+dbapi" schemes select the same backend.
	scheme, _, _ = strings.Cut(scheme, "+")
	if !isSupportedScheme(scheme) {
		return fmt.Errorf("unsupported database scheme %q (supported: %s)", scheme, strings.Join(supportedSchemes, ", "))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.HTTP.Port)
	}
	if c.Search.ReindexSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.Search.ReindexSchedule); err != nil {
			return fmt.Errorf("invalid SEARCH_REINDEX_SCHEDULE %q: %w", c.Search.ReindexSchedule, err)
		}
	}
	return nil
}

// ResolvedLogLevel returns LOG_LEVEL, falling back to debug or info depending on DEBUG.
func (g Global) ResolvedLogLevel() string {
	if g.LogLevel != "" {
		return g.LogLevel
	}
	if g.Debug {
		return "debug"
	}
	return "info"
}

func isSupportedScheme(scheme string) bool {
	for _, s := range supportedSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
