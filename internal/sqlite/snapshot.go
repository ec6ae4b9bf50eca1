package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/repository"
)

const (
	settingTrackAll = "track_all"
	settingSavedAt  = "saved_at"
)

// SnapshotRepository implements repository.SnapshotRepository and
// tracker.Persistence for SQLite
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the stored snapshot in one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snap tracker.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM log_entries", "DELETE FROM tracked_subjects"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	insertEntry, err := tx.PrepareContext(ctx, `
		INSERT INTO log_entries (id, subject_id, display_name, ts, category, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer insertEntry.Close()

	for _, e := range snap.Logs {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		if _, err := insertEntry.ExecContext(ctx,
			e.ID,
			e.SubjectID,
			e.DisplayName,
			e.Timestamp,
			string(e.Category()),
			string(payload),
		); err != nil {
			if isCheckViolation(err) {
				return fmt.Errorf("%w: entry %s", repository.ErrInvalidInput, e.ID)
			}
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	for _, id := range snap.Tracked {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tracked_subjects (subject_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("failed to insert tracked subject: %w", err)
		}
	}

	if err := putSetting(ctx, tx, settingTrackAll, strconv.FormatBool(snap.TrackAll)); err != nil {
		return err
	}
	if err := putSetting(ctx, tx, settingSavedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. It returns tracker.ErrNoSnapshot when
// nothing has been saved and tracker.ErrCorruptSnapshot for unreadable rows.
func (r *SnapshotRepository) Load(ctx context.Context) (tracker.Snapshot, error) {
	if _, err := getSetting(ctx, r.db, settingSavedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return tracker.Snapshot{}, fmt.Errorf("loading snapshot: %w", tracker.ErrNoSnapshot)
		}
		return tracker.Snapshot{}, err
	}

	logs, err := r.ListEntries(ctx, repository.ListEntriesOptions{})
	if err != nil {
		return tracker.Snapshot{}, err
	}

	tracked, err := r.listTracked(ctx)
	if err != nil {
		return tracker.Snapshot{}, err
	}

	snap := tracker.Snapshot{Logs: logs, Tracked: tracked}
	value, err := getSetting(ctx, r.db, settingTrackAll)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return tracker.Snapshot{}, err
	default:
		snap.TrackAll, err = strconv.ParseBool(value)
		if err != nil {
			return tracker.Snapshot{}, fmt.Errorf("%w: track_all %q", tracker.ErrCorruptSnapshot, value)
		}
	}
	return snap, nil
}

// ListEntries returns saved entries matching the given filters, oldest first.
func (r *SnapshotRepository) ListEntries(ctx context.Context, opts repository.ListEntriesOptions) ([]entry.LogEntry, error) {
	query := `
		SELECT id, subject_id, display_name, ts, category, payload
		FROM log_entries
		WHERE 1 = 1
	`
	var args []any
	if opts.SubjectID != "" {
		query += " AND subject_id = ?"
		args = append(args, opts.SubjectID)
	}
	if opts.Category != "" {
		query += " AND category = ?"
		args = append(args, string(opts.Category))
	}
	query += " ORDER BY seq DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []entry.LogEntry
	for rows.Next() {
		var rec entry.Record
		var payload string
		if err := rows.Scan(
			&rec.ID,
			&rec.SubjectID,
			&rec.DisplayName,
			&rec.Timestamp,
			&rec.Category,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e, err := decodeEntry(rec, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", tracker.ErrCorruptSnapshot, rec.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	// Rows were read newest first so LIMIT keeps the newest; return oldest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []entry.LogEntry{}
	}
	return entries, nil
}

func (r *SnapshotRepository) listTracked(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subject_id FROM tracked_subjects ORDER BY subject_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked subjects: %w", err)
	}
	defer rows.Close()

	tracked := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tracked subject: %w", err)
		}
		tracked = append(tracked, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked rows: %w", err)
	}
	return tracked, nil
}

func decodeEntry(rec entry.Record, payload string) (entry.LogEntry, error) {
	var target any
	switch rec.Category {
	case entry.CategoryPresence:
		rec.Presence = &entry.Presence{}
		target = rec.Presence
	case entry.CategoryVoice:
		rec.Voice = &entry.Voice{}
		target = rec.Voice
	case entry.CategoryMessage:
		rec.Message = &entry.Message{}
		target = rec.Message
	case entry.CategoryStatus:
		rec.Status = &entry.Status{}
		target = rec.Status
	default:
		return entry.LogEntry{}, fmt.Errorf("%w: %q", entry.ErrUnknownCategory, rec.Category)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return entry.LogEntry{}, err
	}
	return rec.Entry()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getSetting(ctx context.Context, q queryer, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func putSetting(ctx context.Context, x execer, key, value string) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
