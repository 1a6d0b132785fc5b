package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/testutil"
	"github.com/mrlokans/bookreviews/internal/entities"
)

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db := testutil.NewDatabase(t)
	cfg := config.Auth{
		SessionLifetime: 24 * time.Hour,
		SecureCookies:   false,
	}

	sqlDB, err := db.SQL()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	sm, err := NewSessionManager(sqlDB, db.Dialect(), cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// newSessionRouter exposes the session operations as routes so tests can
// drive them with real cookies.
func newSessionRouter(sm *SessionManager) *gin.Engine {
	logger, _ := logtest.NewNullLogger()
	router := gin.New()
	router.Use(sm.SessionLoadSave(logger))
	router.GET("/login/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if err := sm.LogIn(c.Request, &entities.User{ID: uint(id)}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/book/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		sm.SetCurrentBook(c.Request, uint(id))
		c.Status(http.StatusOK)
	})
	router.GET("/clear-book", func(c *gin.Context) {
		sm.ClearCurrentBook(c.Request)
		c.Status(http.StatusOK)
	})
	router.GET("/logout", func(c *gin.Context) {
		if err := sm.LogOut(c.Request); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, "%d/%d", sm.UserID(c.Request), sm.CurrentBook(c.Request))
	})
	return router
}

// do sends a GET carrying cookie (if any) and returns the response and the
// session cookie to use next.
func do(t *testing.T, router *gin.Engine, path string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return rr, c
		}
	}
	return rr, cookie
}

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	if sm.Cookie.Name != "session" {
		t.Errorf("Expected cookie name 'session', got '%s'", sm.Cookie.Name)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie should be HttpOnly")
	}
	if sm.Cookie.Secure {
		t.Error("Cookie.Secure should follow SecureCookies")
	}
	if sm.IdleTimeout != 12*time.Hour {
		t.Errorf("Expected idle timeout of half the lifetime, got %v", sm.IdleTimeout)
	}
}

func TestNewSessionManager_PostgresUsesMemoryStore(t *testing.T) {
	sm, err := NewSessionManager(nil, database.DialectPostgres, config.Auth{
		SessionLifetime: time.Hour,
		SecureCookies:   true,
	})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	if sm.Store == nil {
		t.Fatal("Expected a session store")
	}
	if !sm.Cookie.Secure {
		t.Error("Cookie.Secure should be true when SecureCookies is enabled")
	}
}

func TestSessionManager_LogInPersistsAcrossRequests(t *testing.T) {
	router := newSessionRouter(setupSessionManager(t))

	rr, _ := do(t, router, "/whoami", nil)
	if rr.Body.String() != "0/0" {
		t.Errorf("Expected anonymous session, got %q", rr.Body.String())
	}

	_, cookie := do(t, router, "/login/42", nil)
	if cookie == nil {
		t.Fatal("Expected a session cookie after login")
	}

	rr, _ = do(t, router, "/whoami", cookie)
	if rr.Body.String() != "42/0" {
		t.Errorf("Expected user 42, got %q", rr.Body.String())
	}
}

func TestSessionManager_LogInRenewsToken(t *testing.T) {
	router := newSessionRouter(setupSessionManager(t))

	_, anonymous := do(t, router, "/book/7", nil)
	if anonymous == nil {
		t.Fatal("Expected a session cookie")
	}

	_, loggedIn := do(t, router, "/login/42", anonymous)
	if loggedIn.Value == anonymous.Value {
		t.Error("Expected login to issue a new session token")
	}

	rr, _ := do(t, router, "/whoami", loggedIn)
	if rr.Body.String() != "42/7" {
		t.Errorf("Expected data to survive the renewal, got %q", rr.Body.String())
	}
}

func TestSessionManager_CurrentBook(t *testing.T) {
	router := newSessionRouter(setupSessionManager(t))

	_, cookie := do(t, router, "/login/1", nil)
	_, cookie = do(t, router, "/book/9", cookie)

	rr, _ := do(t, router, "/whoami", cookie)
	if rr.Body.String() != "1/9" {
		t.Errorf("Expected book 9, got %q", rr.Body.String())
	}

	_, cookie = do(t, router, "/clear-book", cookie)
	rr, _ = do(t, router, "/whoami", cookie)
	if rr.Body.String() != "1/0" {
		t.Errorf("Expected cleared book, got %q", rr.Body.String())
	}
}

func TestSessionManager_LogOut(t *testing.T) {
	router := newSessionRouter(setupSessionManager(t))

	_, cookie := do(t, router, "/login/5", nil)
	_, cookie = do(t, router, "/logout", cookie)

	rr, _ := do(t, router, "/whoami", cookie)
	if rr.Body.String() != "0/0" {
		t.Errorf("Expected logged-out session, got %q", rr.Body.String())
	}
}

// unwritableStore loads nothing and refuses every write.
type unwritableStore struct{}

func (unwritableStore) Find(string) ([]byte, bool, error) { return nil, false, nil }

func (unwritableStore) Commit(string, []byte, time.Time) error {
	return errors.New("disk I/O error")
}

func (unwritableStore) Delete(string) error { return nil }

func TestSessionLoadSave_LogsCommitFailure(t *testing.T) {
	sm := setupSessionManager(t)
	sm.Store = unwritableStore{}

	logger, hook := logtest.NewNullLogger()
	router := gin.New()
	router.Use(sm.SessionLoadSave(logger))
	router.GET("/login/:id", func(c *gin.Context) {
		if err := sm.LogIn(c.Request, &entities.User{ID: 7}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	rr, cookie := do(t, router, "/login/7", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if cookie != nil {
		t.Errorf("expected no session cookie when the store rejects the write, got %q", cookie.Value)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected the commit failure to be logged")
	}
	if entry.Level != logrus.ErrorLevel {
		t.Errorf("expected error level, got %s", entry.Level)
	}
	if entry.Message != "failed to commit session" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Data[logrus.ErrorKey] == nil {
		t.Error("expected the store error to be attached")
	}
}
