package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/linimasa/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a migrated in-memory chat database that is closed when
// the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}
