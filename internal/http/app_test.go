package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/database/reviews"
	"github.com/mrlokans/bookreviews/internal/database/testutil"
	"github.com/mrlokans/bookreviews/internal/database/users"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/ratings"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	hobbitISBN = "0547928221"
	orwellISBN = "0451524934"
)

var testCatalog = []entities.Book{
	{ISBN: hobbitISBN, Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937},
	{ISBN: orwellISBN, Title: "1984", Author: "George Orwell", Year: 1949},
	{ISBN: "1984000001", Title: "Some Other Book", Author: "Jane Doe", Year: 2001},
	{ISBN: "0000000002", Title: "Memoirs", Author: "Author 1984", Year: 1999},
	{ISBN: "0000000003", Title: "Unrelated", Author: "Nobody", Year: 1984},
}

// fakeRatings stands in for the third-party ratings API.
type fakeRatings struct {
	mu      sync.Mutex
	summary ratings.Summary
	err     error
	calls   []string
}

func (f *fakeRatings) Lookup(_ context.Context, isbn string) (*ratings.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, isbn)
	if f.err != nil {
		return nil, f.err
	}
	summary := f.summary
	return &summary, nil
}

func (f *fakeRatings) lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRatings) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type testApp struct {
	t       *testing.T
	db      *database.Database
	server  *httptest.Server
	client  *http.Client
	ratings *fakeRatings
	logs    *logtest.Hook
}

func routerConfig(t *testing.T, db *database.Database, ratingsLookup RatingsLookup, logger logrus.FieldLogger) RouterConfig {
	t.Helper()

	authCfg := config.Auth{
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	sqlDB, err := db.SQL()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, db.Dialect(), authCfg)
	require.NoError(t, err)

	return RouterConfig{
		Books:          books.NewRepository(db.DB),
		Reviews:        reviews.NewRepository(db.DB),
		Accounts:       auth.NewService(users.NewRepository(db.DB), authCfg),
		Ratings:        ratingsLookup,
		Database:       db,
		SessionManager: sessions,
		Logger:         logger,
		Version:        "test",
	}
}

// setupTestApp serves the full router over a real listener with a seeded
// catalog and a cookie-keeping client.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewDatabase(t)
	catalog := make([]entities.Book, len(testCatalog))
	copy(catalog, testCatalog)
	_, err := books.NewRepository(db.DB).CreateBooks(context.Background(), catalog)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	fake := &fakeRatings{summary: ratings.Summary{AverageRating: 4.28, RatingsCount: 3321456}}

	router, err := NewRouter(routerConfig(t, db, fake, logger))
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		t:       t,
		db:      db,
		server:  server,
		client:  &http.Client{Jar: jar, Timeout: 5 * time.Second},
		ratings: fake,
		logs:    hook,
	}
}

func (a *testApp) get(path string) (int, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(a.t, err)
	return readResponse(a.t, resp)
}

func (a *testApp) post(path string, form url.Values) (int, string) {
	a.t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(a.t, err)
	return readResponse(a.t, resp)
}

func readResponse(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (a *testApp) register(username, password string) {
	a.t.Helper()
	status, body := a.post("/register", url.Values{
		"username":         {username},
		"password":         {password},
		"password_confirm": {password},
	})
	require.Equal(a.t, http.StatusOK, status)
	require.Contains(a.t, body, msgRegistered)
}

func (a *testApp) login(username, password string) {
	a.t.Helper()
	status, body := a.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(a.t, http.StatusOK, status)
	require.Contains(a.t, body, "Search books")
}

func (a *testApp) registerAndLogin(username, password string) {
	a.t.Helper()
	a.register(username, password)
	a.login(username, password)
}

// newClient returns a second visitor with an empty cookie jar.
func (a *testApp) newClient() *testApp {
	a.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	other := *a
	other.client = &http.Client{Jar: jar, Timeout: 5 * time.Second}
	return &other
}

// hasLog reports whether an entry with the message was logged at level.
func (a *testApp) hasLog(level logrus.Level, message string) bool {
	for _, entry := range a.logs.AllEntries() {
		if entry.Level == level && strings.Contains(entry.Message, message) {
			return true
		}
	}
	return false
}

func (a *testApp) reviewCount() int64 {
	a.t.Helper()
	var count int64
	require.NoError(a.t, a.db.DB.Model(&entities.Review{}).Count(&count).Error)
	return count
}
