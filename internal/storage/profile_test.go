package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/craftgate/internal/core/domain"
)

func TestProfileStore_SaveLoad(t *testing.T) {
	store := NewProfileStore(newTestEngine(t, ""))
	ctx := context.Background()

	_, found, err := store.LoadProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)

	seen := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &domain.PlayerProfile{UUID: "u-1", Name: "alice", GameMode: domain.GameModeCreative, Level: 7, LastSeen: seen}
	require.NoError(t, store.SaveProfile(ctx, p))

	got, found, err := store.LoadProfile(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, domain.GameModeCreative, got.GameMode)
	assert.Equal(t, 7, got.Level)
	assert.True(t, got.LastSeen.Equal(seen))
}

func TestProfileStore_ListAndDelete(t *testing.T) {
	store := NewProfileStore(newTestEngine(t, ""))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveProfile(ctx, &domain.PlayerProfile{UUID: id, Name: id}))
	}

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.DeleteProfile(ctx, "b"))
	all, err = store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProfileStore_Errors(t *testing.T) {
	engine := newTestEngine(t, "")
	store := NewProfileStore(engine)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveProfile(ctx, &domain.PlayerProfile{}), domain.ErrMissingField)
	assert.ErrorIs(t, store.SaveProfile(ctx, nil), domain.ErrMissingField)

	require.NoError(t, engine.Set(ctx, []byte("profile/bad"), []byte("{not json")))
	_, _, err := store.LoadProfile(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrStorage)

	require.NoError(t, engine.Close())
	_, _, err = store.LoadProfile(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.True(t, errors.Is(err, ErrClosed))
}
