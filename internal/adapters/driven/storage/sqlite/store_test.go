package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSource(id, name string) domain.Source {
	return domain.Source{
		ID:         id,
		Name:       name,
		BaseURL:    "https://" + id + ".example.com/api.php/provide/vod/",
		Timeout:    5 * time.Second,
		RetryCount: 2,
		Enabled:    true,
	}
}

func TestSourceStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	sources := store.SourceStore()
	ctx := context.Background()

	src := testSource("src-1", "Provider One")
	require.NoError(t, sources.Save(ctx, src))

	got, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Provider One", got.Name)
	assert.Equal(t, src.BaseURL, got.BaseURL)
	assert.Equal(t, 5*time.Second, got.Timeout)
	assert.Equal(t, 2, got.RetryCount)
	assert.True(t, got.Enabled)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSourceStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SourceStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_SaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)

	bad := testSource("src-1", "Provider One")
	bad.BaseURL = "not a url"
	assert.ErrorIs(t, store.SourceStore().Save(context.Background(), bad), domain.ErrInvalidInput)
}

func TestSourceStore_SaveUpdates(t *testing.T) {
	store := newTestStore(t)
	sources := store.SourceStore()
	ctx := context.Background()

	src := testSource("src-1", "Provider One")
	require.NoError(t, sources.Save(ctx, src))

	src.Name = "Renamed"
	src.RetryCount = 0
	require.NoError(t, sources.Save(ctx, src))

	got, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 0, got.RetryCount)
}

func TestSourceStore_ListOrderedByName(t *testing.T) {
	store := newTestStore(t)
	sources := store.SourceStore()
	ctx := context.Background()

	require.NoError(t, sources.Save(ctx, testSource("b", "Bravo")))
	require.NoError(t, sources.Save(ctx, testSource("a", "Alpha")))

	list, err := sources.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Bravo", list[1].Name)
}

func TestSourceStore_Delete(t *testing.T) {
	store := newTestStore(t)
	sources := store.SourceStore()
	ctx := context.Background()

	require.NoError(t, sources.Save(ctx, testSource("src-1", "Provider One")))
	require.NoError(t, sources.Delete(ctx, "src-1"))

	_, err := sources.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, sources.Delete(ctx, "src-1"), domain.ErrNotFound)
}

func TestSourceStore_SetEnabled(t *testing.T) {
	store := newTestStore(t)
	sources := store.SourceStore()
	ctx := context.Background()

	require.NoError(t, sources.Save(ctx, testSource("src-1", "Provider One")))
	require.NoError(t, sources.SetEnabled(ctx, "src-1", false))

	got, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	assert.ErrorIs(t, sources.SetEnabled(ctx, "missing", true), domain.ErrNotFound)
}

func TestHistoryStore_AppendAndList(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, history.Append(ctx, domain.SearchRecord{
			Query:       "query",
			SourceCount: 4,
			ResultCount: i,
			Duration:    1500 * time.Millisecond,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := history.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, 2, records[0].ResultCount)
	assert.Equal(t, 1, records[1].ResultCount)
	assert.Equal(t, 1500*time.Millisecond, records[0].Duration)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	require.NoError(t, history.Append(ctx, domain.SearchRecord{Query: "q", SourceCount: 1}))
	require.NoError(t, history.Clear(ctx))

	records, err := history.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SourceStore().Save(context.Background(), testSource("src-1", "Provider One")))
	require.NoError(t, first.Close())

	// Reopening reruns migrate against the existing schema.
	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.SourceStore().Get(context.Background(), "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Provider One", got.Name)
}
