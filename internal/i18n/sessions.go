package i18n

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/marcdemo/internal/config"
)

// SessionKeyLocale holds the locale picked with the ?ln= parameter.
const SessionKeyLocale = "locale"

// SessionManager wraps scs.SessionManager with locale accessors.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. Sessions live in
// sqlDB when it is given (a SQLite handle) and in process memory otherwise.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = cfg.Lifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

func (sm *SessionManager) SetLocale(r *http.Request, locale string) {
	sm.Put(r.Context(), SessionKeyLocale, locale)
}

// GetLocale returns the stored locale or an empty string.
func (sm *SessionManager) GetLocale(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyLocale)
}
