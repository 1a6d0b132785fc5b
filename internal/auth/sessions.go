package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID = "user_id"
	SessionKeyBookID = "books_id"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// SQLite databases keep sessions in a sessions table next to the app data;
// other dialects use an in-process store.
func NewSessionManager(sqlDB *sql.DB, dialect database.Dialect, cfg config.Auth) (*SessionManager, error) {
	sm := scs.New()

	if dialect == database.DialectSQLite {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// LogIn marks the session as belonging to user.
func (sm *SessionManager) LogIn(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Stored as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	return nil
}

// LogOut drops the user from the session. Other keys are left alone.
func (sm *SessionManager) LogOut(r *http.Request) error {
	sm.Remove(r.Context(), SessionKeyUserID)
	return sm.RenewToken(r.Context())
}

// UserID returns the logged-in user's ID, or 0.
func (sm *SessionManager) UserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// SetCurrentBook records the book whose page the user opened last.
func (sm *SessionManager) SetCurrentBook(r *http.Request, bookID uint) {
	sm.Put(r.Context(), SessionKeyBookID, int(bookID))
}

// CurrentBook returns the book recorded by SetCurrentBook, or 0.
func (sm *SessionManager) CurrentBook(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyBookID))
}

func (sm *SessionManager) ClearCurrentBook(r *http.Request) {
	sm.Remove(r.Context(), SessionKeyBookID)
}
