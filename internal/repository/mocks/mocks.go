package mocks

import (
	"context"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/stretchr/testify/mock"
)

// SnapshotRepository is a mock for repository.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Save(ctx context.Context, snap tracker.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *SnapshotRepository) Load(ctx context.Context) (tracker.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(tracker.Snapshot); ok {
		return snap, args.Error(1)
	}
	return tracker.Snapshot{}, args.Error(1)
}

func (m *SnapshotRepository) ListEntries(ctx context.Context, opts repository.ListEntriesOptions) ([]entry.LogEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]entry.LogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// NameRepository is a mock for repository.NameRepository.
type NameRepository struct {
	mock.Mock
}

func (m *NameRepository) Put(ctx context.Context, n names.Name) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NameRepository) Get(ctx context.Context, kind names.Kind, id string) (names.Name, error) {
	args := m.Called(ctx, kind, id)
	if n, ok := args.Get(0).(names.Name); ok {
		return n, args.Error(1)
	}
	return names.Name{}, args.Error(1)
}

func (m *NameRepository) All(ctx context.Context) ([]names.Name, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]names.Name); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Notifier is a mock for tracker.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, n tracker.Notification) {
	m.Called(ctx, n)
}
