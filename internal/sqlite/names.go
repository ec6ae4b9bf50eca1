package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/repository"
)

// NameRepository implements repository.NameRepository and names.Store for SQLite
type NameRepository struct {
	db *DB
}

// NewNameRepository creates a new NameRepository
func NewNameRepository(db *DB) *NameRepository {
	return &NameRepository{db: db}
}

// Put inserts or replaces a name
func (r *NameRepository) Put(ctx context.Context, n names.Name) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO names (kind, id, name, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(kind, id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
	`, string(n.Kind), n.ID, n.Name)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: kind %q", repository.ErrInvalidInput, n.Kind)
		}
		return fmt.Errorf("failed to put name: %w", err)
	}
	return nil
}

// Get returns one name
func (r *NameRepository) Get(ctx context.Context, kind names.Kind, id string) (names.Name, error) {
	n := names.Name{Kind: kind, ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM names WHERE kind = ? AND id = ?`, string(kind), id).Scan(&n.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return names.Name{}, repository.ErrNotFound
	}
	if err != nil {
		return names.Name{}, fmt.Errorf("failed to get name: %w", err)
	}
	return n, nil
}

// All returns every stored name
func (r *NameRepository) All(ctx context.Context) ([]names.Name, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, id, name FROM names ORDER BY kind, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var out []names.Name
	for rows.Next() {
		var n names.Name
		var kind string
		if err := rows.Scan(&kind, &n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		n.Kind = names.Kind(kind)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating name rows: %w", err)
	}
	return out, nil
}
