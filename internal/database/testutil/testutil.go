// Package testutil opens throwaway SQLite databases for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookreviews/internal/database"
)

// NewDatabase returns a migrated SQLite database in t's temp dir, closed on cleanup.
func NewDatabase(t *testing.T) *database.Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase("sqlite://"+dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
