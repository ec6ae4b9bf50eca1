package repository

import (
	"context"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/names"
)

// SnapshotRepository persists engine snapshots and answers read-only queries
// over the last saved log.
type SnapshotRepository interface {
	Save(ctx context.Context, snap tracker.Snapshot) error
	Load(ctx context.Context) (tracker.Snapshot, error)
	ListEntries(ctx context.Context, opts ListEntriesOptions) ([]entry.LogEntry, error)
}

// ListEntriesOptions provides filtering options for listing saved entries
type ListEntriesOptions struct {
	SubjectID string
	Category  entry.Category
	// Limit keeps only the newest entries. Results stay oldest first.
	Limit int
}

// NameRepository manages display-name persistence
type NameRepository interface {
	Put(ctx context.Context, n names.Name) error
	Get(ctx context.Context, kind names.Kind, id string) (names.Name, error)
	All(ctx context.Context) ([]names.Name, error)
}
