package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/watchlog/internal/domain/entry"
)

// Snapshot returns a point-in-time copy of the persisted data.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Logs:     e.log.All(),
		Tracked:  e.registry.List(),
		TrackAll: e.registry.TrackAll(),
	}
}

// Restore replaces the log and registry with snap and forgets subject state
// and seen message ids. Entries beyond capacity are dropped oldest first. An
// invalid snapshot leaves the engine unchanged.
func (e *Engine) Restore(snap Snapshot) error {
	var lastTS int64
	for i, le := range snap.Logs {
		if err := le.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorruptSnapshot, i, err)
		}
		if le.Timestamp < lastTS {
			return fmt.Errorf("%w: entry %d out of order", ErrCorruptSnapshot, i)
		}
		lastTS = le.Timestamp
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Replace(snap.Logs)
	e.registry = NewRegistry(snap.TrackAll, snap.Tracked...)
	e.state.Reset()
	e.dedup.Reset()
	e.lastTS = lastTS
	e.version++
	return nil
}

// Load restores from p. Missing or corrupt data starts the engine empty and is
// logged rather than returned; only context cancellation is reported. Either
// way the engine is clean afterwards.
func (e *Engine) Load(ctx context.Context, p Persistence) error {
	if err := e.load(ctx, p); err != nil {
		return err
	}
	e.markSaved()
	return nil
}

func (e *Engine) load(ctx context.Context, p Persistence) error {
	snap, err := p.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if errors.Is(err, ErrNoSnapshot) {
			e.logger.Info("no persisted logs, starting empty")
			e.reset()
			return nil
		}
		e.logger.Warn("failed to load persisted logs, starting empty", "error", err)
		e.reset()
		return nil
	}
	if err := e.Restore(snap); err != nil {
		e.logger.Warn("persisted logs are corrupt, starting empty", "error", err)
		e.reset()
		return nil
	}
	e.logger.Info("loaded persisted logs", "entries", len(snap.Logs), "tracked", len(snap.Tracked))
	return nil
}

// Save writes a point-in-time copy to p. It does not hold the engine lock
// while p works.
func (e *Engine) Save(ctx context.Context, p Persistence) error {
	e.mu.Lock()
	snap, version := e.snapshotLocked(), e.version
	e.mu.Unlock()

	if err := p.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	e.mu.Lock()
	if version > e.saved {
		e.saved = version
	}
	e.mu.Unlock()
	return nil
}

// Dirty reports whether the engine changed since it was last loaded or saved.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version != e.saved
}

func (e *Engine) markSaved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saved = e.version
}

// ExportJSON encodes the snapshot as indented JSON.
func (e *Engine) ExportJSON() (string, error) {
	data, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(data), nil
}

// ImportJSON restores from a document produced by ExportJSON.
func (e *Engine) ImportJSON(data string) error {
	snap, err := DecodeSnapshot([]byte(data))
	if err != nil {
		return err
	}
	return e.Restore(snap)
}

// DecodeSnapshot parses an exported JSON document.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Logs == nil {
		snap.Logs = []entry.LogEntry{}
	}
	return snap, nil
}

func (e *Engine) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Clear()
	e.registry = NewRegistry(e.cfg.TrackAll, e.cfg.Tracked...)
	e.state.Reset()
	e.dedup.Reset()
	e.lastTS = 0
}
