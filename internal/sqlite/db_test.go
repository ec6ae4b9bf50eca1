package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"log_entries",
		"tracked_subjects",
		"settings",
		"names",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestLogEntriesCategoryCheck verifies the category constraint
func TestLogEntriesCategoryCheck(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO log_entries (id, subject_id, display_name, ts, category, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		"e1", "u1", "Alice", 1, "status", `{"value":"online"}`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO log_entries (id, subject_id, display_name, ts, category, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		"e2", "u1", "Alice", 2, "typing", `{}`)
	require.Error(t, err, "should fail with unknown category")
	require.True(t, isCheckViolation(err))
}
