package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/marcdemo/internal/entities"
)

// models lists every table owned by the application, in creation order.
var models = []any{
	&entities.RecordMetadata{},
	&entities.PersistentIdentifier{},
	&entities.RecordIdentifier{},
	&entities.RecordIndexEntry{},
	&entities.AuditEvent{},
}

type Database struct {
	DB     *gorm.DB
	Target Target
}

type options struct {
	log   *logrus.Logger
	debug bool
}

type Option func(*options)

// WithLogger routes gorm's SQL logging through the given logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDebug logs every statement instead of only slow ones and errors.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

func NewDatabase(uri string, opts ...Option) (*Database, error) {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if o.debug {
		level = logger.Info
	}
	gormLogger := logger.New(o.log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(target.dialector(), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if target.IsMemory() {
		// Every new connection would see its own empty in-memory database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	o.log.WithField("dialect", target.Dialect).Debug("Database connection opened")

	return &Database{DB: db, Target: target}, nil
}

// Migrate creates or updates every application table.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DropAll removes every application table.
func (d *Database) DropAll() error {
	for i := len(models) - 1; i >= 0; i-- {
		if err := d.DB.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Dialect() string {
	return d.Target.Dialect
}

// SQLitePath returns the database file for file-backed SQLite targets and
// an empty string otherwise.
func (d *Database) SQLitePath() string {
	return d.Target.FilePath()
}
