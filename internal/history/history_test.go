package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "who scored the most?", "top scorers", "get_ranking_by_age"))
	require.NoError(t, s.Save(ctx, "longest streak?", "streaks", "get_consecutive_games"))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "longest streak?", entries[0].Query, "newest first")
	assert.Equal(t, "get_consecutive_games", entries[0].Operation)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestSaveDeduplicatesByQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "same question", "first", "get_ranking_by_age"))
	require.NoError(t, s.Save(ctx, "same question", "second", "get_duel_ranking"))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].Description, "repeat saves keep the original row")
}

func TestSavePrunesBeyondCap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxEntries+20; i++ {
		require.NoError(t, s.Save(ctx, fmt.Sprintf("question %03d", i), "d", "get_ranking_by_age"))
	}

	entries, err := s.Recent(ctx, maxEntries*2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), maxEntries)
}

func TestRecentDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.Save(ctx, fmt.Sprintf("question %02d", i), "d", "op"))
	}

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
