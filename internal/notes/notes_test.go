package notes

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AddAndSearch(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "", "core", "the user prefers metric units")
	require.NoError(t, err)
	_, err = store.Add(ctx, "", "core", "the user lives in Lisbon")
	require.NoError(t, err)

	got, err := store.Search(ctx, "metric", "", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "core", got[0].Category)
	assert.Contains(t, got[0].Content, "metric")
}

func TestStore_SessionScoping(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "sess-a", "conversation", "asked about trains")
	require.NoError(t, err)
	_, err = store.Add(ctx, "", "core", "likes trains a lot")
	require.NoError(t, err)

	// From session A both notes are visible.
	got, err := store.Search(ctx, "trains", "sess-a", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// From another session only the unscoped note matches.
	got, err = store.Search(ctx, "trains", "sess-b", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "core", got[0].Category)
}

func TestStore_Recent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		_, err := store.Add(ctx, "", "core", content)
		require.NoError(t, err)
	}

	got, err := store.Recent(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Content)
}
