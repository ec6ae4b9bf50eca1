package names_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDirectory_LoadAndLookup(t *testing.T) {
	store := &mocks.NameRepository{}
	store.On("All", mock.Anything).Return([]names.Name{
		{Kind: names.KindChannel, ID: "c1", Name: "General"},
		{Kind: names.KindGuild, ID: "g1", Name: "Guild"},
		{Kind: "bogus", ID: "x", Name: "ignored"},
	}, nil)

	dir := names.NewDirectory(store, nil)
	require.NoError(t, dir.Load(context.Background()))

	name, ok := dir.ChannelName("c1")
	require.True(t, ok)
	require.Equal(t, "General", name)

	name, ok = dir.GuildName("g1")
	require.True(t, ok)
	require.Equal(t, "Guild", name)

	_, ok = dir.SubjectDisplayName("u1")
	require.False(t, ok)
	_, ok = dir.Lookup("bogus", "x")
	require.False(t, ok)
	store.AssertExpectations(t)
}

func TestDirectory_SetWritesThrough(t *testing.T) {
	store := &mocks.NameRepository{}
	n := names.Name{Kind: names.KindSubject, ID: "u1", Name: "Alice"}
	store.On("Put", mock.Anything, n).Return(nil)

	dir := names.NewDirectory(store, nil)
	require.NoError(t, dir.Set(context.Background(), n))

	name, ok := dir.SubjectDisplayName("u1")
	require.True(t, ok)
	require.Equal(t, "Alice", name)
	store.AssertExpectations(t)
}

func TestDirectory_SetStoreFailureKeepsMemoryUnchanged(t *testing.T) {
	store := &mocks.NameRepository{}
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	dir := names.NewDirectory(store, nil)
	err := dir.Set(context.Background(), names.Name{Kind: names.KindChannel, ID: "c1", Name: "General"})
	require.Error(t, err)

	_, ok := dir.ChannelName("c1")
	require.False(t, ok)
}

func TestDirectory_SetRejectsInvalid(t *testing.T) {
	dir := names.NewDirectory(nil, nil)
	ctx := context.Background()

	require.ErrorIs(t, dir.Set(ctx, names.Name{Kind: "planet", ID: "p", Name: "Mars"}), names.ErrInvalidName)
	require.ErrorIs(t, dir.Set(ctx, names.Name{Kind: names.KindGuild, Name: "Guild"}), names.ErrInvalidName)
	require.ErrorIs(t, dir.Set(ctx, names.Name{Kind: names.KindGuild, ID: "g1"}), names.ErrInvalidName)
}

func TestDirectory_MemoryOnly(t *testing.T) {
	dir := names.NewDirectory(nil, nil)
	ctx := context.Background()
	require.NoError(t, dir.Load(ctx))
	require.NoError(t, dir.Set(ctx, names.Name{Kind: names.KindGuild, ID: "g1", Name: "Guild"}))

	name, ok := dir.GuildName("g1")
	require.True(t, ok)
	require.Equal(t, "Guild", name)
}
