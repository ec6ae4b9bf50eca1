package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite serializes writers, and ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	migration := `
-- Persisted event log, in insertion order
CREATE TABLE IF NOT EXISTS log_entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    ts INTEGER NOT NULL,
    category TEXT NOT NULL CHECK(category IN ('presence', 'voice', 'message', 'status')),
    payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_log_subject ON log_entries(subject_id);
CREATE INDEX IF NOT EXISTS idx_log_category ON log_entries(category);

-- Explicitly tracked subjects
CREATE TABLE IF NOT EXISTS tracked_subjects (
    subject_id TEXT PRIMARY KEY
);

-- Scalar settings (track-all flag, last save time)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Display names for channels, guilds and subjects
CREATE TABLE IF NOT EXISTS names (
    kind TEXT NOT NULL CHECK(kind IN ('channel', 'guild', 'subject')),
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (kind, id)
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
