package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestNameRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNameRepository(db)

	require.NoError(t, repo.Put(ctx, names.Name{Kind: names.KindChannel, ID: "c1", Name: "General"}))
	require.NoError(t, repo.Put(ctx, names.Name{Kind: names.KindChannel, ID: "c1", Name: "Lobby"}))

	n, err := repo.Get(ctx, names.KindChannel, "c1")
	require.NoError(t, err)
	require.Equal(t, "Lobby", n.Name)

	_, err = repo.Get(ctx, names.KindGuild, "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNameRepository_RejectsUnknownKind(t *testing.T) {
	db := NewTestDB(t)
	repo := NewNameRepository(db)

	err := repo.Put(context.Background(), names.Name{Kind: "planet", ID: "p1", Name: "Mars"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestNameRepository_BacksDirectory(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNameRepository(db)

	dir := names.NewDirectory(repo, nil)
	require.NoError(t, dir.Set(ctx, names.Name{Kind: names.KindSubject, ID: "u1", Name: "Alice"}))
	require.NoError(t, dir.Set(ctx, names.Name{Kind: names.KindGuild, ID: "g1", Name: "Guild"}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	reloaded := names.NewDirectory(repo, nil)
	require.NoError(t, reloaded.Load(ctx))
	name, ok := reloaded.SubjectDisplayName("u1")
	require.True(t, ok)
	require.Equal(t, "Alice", name)
	name, ok = reloaded.GuildName("g1")
	require.True(t, ok)
	require.Equal(t, "Guild", name)
}
