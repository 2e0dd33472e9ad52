package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

const sqliteMemory = ":memory:"

var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// Target is a parsed SQLALCHEMY_DATABASE_URI.
type Target struct {
	Dialect string
	DSN     string
}

// IsMemory reports whether the target is an in-memory SQLite database.
func (t Target) IsMemory() bool {
	return t.Dialect == DialectSQLite && strings.HasPrefix(t.DSN, sqliteMemory)
}

// FilePath returns the database file of a file-backed SQLite target and
// an empty string otherwise.
func (t Target) FilePath() string {
	if t.Dialect != DialectSQLite || t.IsMemory() {
		return ""
	}
	path, _, _ := strings.Cut(t.DSN, "?")
	return path
}

// ParseURI converts an SQLAlchemy-style database URI into a dialect and DSN.
//
//	sqlite:///app.db          -> app.db (relative)
//	sqlite:////var/app.db     -> /var/app.db
//	sqlite://                 -> :memory:
//	postgresql://u:p@h/db     -> passed to pgx unchanged
//	mysql://u:p@h:3306/db     -> u:p@tcp(h:3306)/db?parseTime=true
func ParseURI(uri string) (Target, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return Target{}, fmt.Errorf("%w: %q has no scheme", ErrUnsupportedScheme, uri)
	}
	scheme, _, _ = strings.Cut(scheme, "+")

	switch scheme {
	case "sqlite":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			path = sqliteMemory
		}
		return Target{Dialect: DialectSQLite, DSN: path}, nil
	case "postgres", "postgresql":
		return Target{Dialect: DialectPostgres, DSN: "postgres://" + rest}, nil
	case "mysql":
		dsn, err := mysqlDSN(rest)
		if err != nil {
			return Target{}, err
		}
		return Target{Dialect: DialectMySQL, DSN: dsn}, nil
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

func mysqlDSN(rest string) (string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", fmt.Errorf("invalid mysql uri: %w", err)
	}

	var auth string
	if u.User != nil {
		auth = u.User.Username()
		if password, ok := u.User.Password(); ok {
			auth += ":" + password
		}
		auth += "@"
	}

	host := u.Host
	if host != "" && u.Port() == "" {
		host += ":3306"
	}

	query := u.Query()
	if query.Get("parseTime") == "" {
		query.Set("parseTime", "true")
	}

	return fmt.Sprintf("%stcp(%s)/%s?%s", auth, host, strings.TrimPrefix(u.Path, "/"), query.Encode()), nil
}

func (t Target) dialector() gorm.Dialector {
	switch t.Dialect {
	case DialectPostgres:
		return postgres.Open(t.DSN)
	case DialectMySQL:
		return mysql.Open(t.DSN)
	default:
		return sqlite.Open(t.DSN)
	}
}
