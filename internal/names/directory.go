// Package names resolves channel, guild and subject identifiers to display
// names from an in-memory directory backed by a persistent store.
package names

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Kind is the namespace of an identifier.
type Kind string

const (
	KindChannel Kind = "channel"
	KindGuild   Kind = "guild"
	KindSubject Kind = "subject"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindChannel || k == KindGuild || k == KindSubject
}

// ErrInvalidName indicates an unknown kind or an empty id or name.
var ErrInvalidName = errors.New("invalid name")

// Name is one stored identifier to display-name mapping.
type Name struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store persists names.
type Store interface {
	Put(ctx context.Context, n Name) error
	All(ctx context.Context) ([]Name, error)
}

// Directory answers lookups from memory and writes changes through to its
// store. Lookups never touch the store. Safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	names  map[Kind]map[string]string
	store  Store
	logger *slog.Logger
}

// NewDirectory creates an empty Directory. store may be nil for a memory-only directory.
func NewDirectory(store Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		names: map[Kind]map[string]string{
			KindChannel: {},
			KindGuild:   {},
			KindSubject: {},
		},
		store:  store,
		logger: logger,
	}
}

// Load fills the directory from its store.
func (d *Directory) Load(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	all, err := d.store.All(ctx)
	if err != nil {
		return fmt.Errorf("loading names: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range all {
		if !n.Kind.Valid() {
			d.logger.Warn("skipping stored name with unknown kind", "kind", n.Kind, "id", n.ID)
			continue
		}
		d.names[n.Kind][n.ID] = n.Name
	}
	return nil
}

// Set records a name and writes it to the store.
func (d *Directory) Set(ctx context.Context, n Name) error {
	if !n.Kind.Valid() || n.ID == "" || n.Name == "" {
		return ErrInvalidName
	}
	if d.store != nil {
		if err := d.store.Put(ctx, n); err != nil {
			return fmt.Errorf("storing name: %w", err)
		}
	}
	d.mu.Lock()
	d.names[n.Kind][n.ID] = n.Name
	d.mu.Unlock()
	return nil
}

// Lookup returns the name for id in kind.
func (d *Directory) Lookup(kind Kind, id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[kind][id]
	return name, ok
}

// ChannelName implements tracker.NameResolver.
func (d *Directory) ChannelName(id string) (string, bool) { return d.Lookup(KindChannel, id) }

// GuildName implements tracker.NameResolver.
func (d *Directory) GuildName(id string) (string, bool) { return d.Lookup(KindGuild, id) }

// SubjectDisplayName implements tracker.NameResolver.
func (d *Directory) SubjectDisplayName(id string) (string, bool) { return d.Lookup(KindSubject, id) }
