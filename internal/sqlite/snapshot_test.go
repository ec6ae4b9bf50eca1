package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() tracker.Snapshot {
	return tracker.Snapshot{
		Logs: []entry.LogEntry{
			{ID: "e1", SubjectID: "u1", DisplayName: "Alice", Timestamp: 1000,
				Payload: entry.Status{Value: "online", ClientStatus: map[string]string{"desktop": "online"}}},
			{ID: "e2", SubjectID: "u1", DisplayName: "Alice", Timestamp: 2000,
				Payload: entry.Presence{Activities: []entry.Activity{{Name: "Chess", Details: "Ranked", StartTime: 1500}}}},
			{ID: "e3", SubjectID: "u2", DisplayName: "Bob", Timestamp: 3000,
				Payload: entry.Voice{ChannelID: "c1", ChannelName: "General", Transition: entry.TransitionJoin, GuildID: "g1", GuildName: "Guild"}},
			{ID: "e4", SubjectID: "u2", DisplayName: "Bob", Timestamp: 4000,
				Payload: entry.Message{MessageID: "m1", Content: "hi", ChannelID: "c2", ChannelName: "chat"}},
		},
		Tracked:  []string{"u1", "u2"},
		TrackAll: true,
	}
}

func TestSnapshotRepository_SaveLoad(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, snap, loaded)
}

func TestSnapshotRepository_SaveReplaces(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	require.NoError(t, repo.Save(ctx, sampleSnapshot()))
	require.NoError(t, repo.Save(ctx, tracker.Snapshot{Tracked: []string{"u3"}}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded.Logs)
	require.Equal(t, []string{"u3"}, loaded.Tracked)
	require.False(t, loaded.TrackAll)
}

func TestSnapshotRepository_LoadNothingSaved(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSnapshotRepository(db)

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, tracker.ErrNoSnapshot)
}

func TestSnapshotRepository_LoadCorruptPayload(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	_, err := db.ExecContext(ctx, `UPDATE log_entries SET payload = ? WHERE id = ?`, "{not json", "e2")
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, tracker.ErrCorruptSnapshot)
}

func TestSnapshotRepository_ListEntries(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	bySubject, err := repo.ListEntries(ctx, repository.ListEntriesOptions{SubjectID: "u2"})
	require.NoError(t, err)
	require.Len(t, bySubject, 2)
	require.Equal(t, "e3", bySubject[0].ID)
	require.Equal(t, "e4", bySubject[1].ID)

	byCategory, err := repo.ListEntries(ctx, repository.ListEntriesOptions{Category: entry.CategoryStatus})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "e1", byCategory[0].ID)

	newest, err := repo.ListEntries(ctx, repository.ListEntriesOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	require.Equal(t, "e3", newest[0].ID)
	require.Equal(t, "e4", newest[1].ID)

	none, err := repo.ListEntries(ctx, repository.ListEntriesOptions{SubjectID: "nobody"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestSnapshotRepository_EngineRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	src := tracker.NewEngine(tracker.Config{}, nil, nil, nil)
	require.NoError(t, src.Restore(sampleSnapshot()))
	require.NoError(t, src.Save(ctx, repo))

	dst := tracker.NewEngine(tracker.Config{}, nil, nil, nil)
	require.NoError(t, dst.Load(ctx, repo))
	require.Equal(t, src.Logs(""), dst.Logs(""))
	require.Equal(t, src.ListTracked(), dst.ListTracked())
	require.True(t, dst.TrackAll())
}
