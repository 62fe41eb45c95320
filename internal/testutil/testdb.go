package testutil

import (
	"testing"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
)

// NewTestDB returns a migrated in-memory SQLite database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
