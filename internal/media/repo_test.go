package media

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunescout/pkg/database"
	"tunescout/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// a single pooled connection serializes writers, so concurrent
	// batches queue at the persistence layer instead of racing
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testItem(id int64, name string) models.MediaItem {
	return models.MediaItem{
		TrackID:    id,
		TrackName:  name,
		ArtistName: "Artist",
		Kind:       "song",
		SearchTerm: "term",
	}
}

func TestUpsertAllInsertsAndReturnsStoredState(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	release := time.Date(2015, 10, 23, 7, 0, 0, 0, time.UTC)
	in := models.MediaItem{
		TrackID:          420075073,
		TrackName:        "Hello",
		ArtistName:       "Adele",
		ArtworkURL:       strPtr("https://example.com/100.jpg"),
		Kind:             "song",
		TrackPrice:       floatPtr(1.29),
		Currency:         strPtr("USD"),
		PrimaryGenreName: strPtr("Pop"),
		ReleaseDate:      &release,
		SearchTerm:       "hello",
	}

	stored, err := repo.UpsertAll(ctx, []models.MediaItem{in})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	got := stored[0]
	assert.Equal(t, in.TrackID, got.TrackID)
	assert.Equal(t, "Hello", got.TrackName)
	require.NotNil(t, got.TrackPrice)
	assert.Equal(t, 1.29, *got.TrackPrice)
	assert.Nil(t, got.CollectionName)
	assert.Nil(t, got.PreviewURL)
	require.NotNil(t, got.ReleaseDate)
	assert.True(t, release.Equal(*got.ReleaseDate))
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestUpsertAllIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	first, err := repo.UpsertAll(ctx, []models.MediaItem{testItem(1, "Original")})
	require.NoError(t, err)
	require.Len(t, first, 1)

	repo.now = func() time.Time { return base.Add(time.Minute) }

	updated := testItem(1, "Renamed")
	updated.SearchTerm = "newer term"
	second, err := repo.UpsertAll(ctx, []models.MediaItem{updated})
	require.NoError(t, err)
	require.Len(t, second, 1, "same key must stay one row")

	got := second[0]
	assert.Equal(t, "Renamed", got.TrackName)
	assert.Equal(t, "newer term", got.SearchTerm)
	assert.True(t, got.CreatedAt.Equal(first[0].CreatedAt), "created_at survives re-upsert")
	assert.True(t, got.UpdatedAt.After(first[0].UpdatedAt), "updated_at refreshes")

	count, err := repo.Count(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertAllReplacesNullableFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	priced := testItem(7, "Track")
	priced.TrackPrice = floatPtr(0)
	stored, err := repo.UpsertAll(ctx, []models.MediaItem{priced})
	require.NoError(t, err)
	require.NotNil(t, stored[0].TrackPrice)
	assert.Equal(t, 0.0, *stored[0].TrackPrice, "free price 0 round-trips, not null")

	// full replace: the unpriced re-ingestion clears the column
	stored, err = repo.UpsertAll(ctx, []models.MediaItem{testItem(7, "Track")})
	require.NoError(t, err)
	assert.Nil(t, stored[0].TrackPrice)
}

func TestUpsertAllEmptyBatch(t *testing.T) {
	repo := newTestRepo(t)

	stored, err := repo.UpsertAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUpsertAllConcurrentOverlappingBatches(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batchA := []models.MediaItem{testItem(1, "A1"), testItem(2, "A2"), testItem(3, "A3")}
	batchB := []models.MediaItem{testItem(2, "B2"), testItem(3, "B3"), testItem(4, "B4")}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, batch := range [][]models.MediaItem{batchA, batchB} {
		wg.Add(1)
		go func(items []models.MediaItem) {
			defer wg.Done()
			_, err := repo.UpsertAll(ctx, items)
			errs <- err
		}(batch)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := repo.Count(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// every shared key holds one intact row from one batch or the other
	for _, id := range []int64{2, 3} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Contains(t, []string{fmt.Sprintf("A%d", id), fmt.Sprintf("B%d", id)}, got.TrackName)
		assert.Equal(t, "Artist", got.ArtistName)
	}
}

func TestGetByTrackIDsPreservesOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.UpsertAll(ctx, []models.MediaItem{
		testItem(10, "Ten"), testItem(20, "Twenty"), testItem(30, "Thirty"),
	})
	require.NoError(t, err)

	items, err := repo.GetByTrackIDs(ctx, []int64{30, 10, 99})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(30), items[0].TrackID)
	assert.Equal(t, int64(10), items[1].TrackID)
}

func TestGetByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	song := testItem(1, "Hello")
	song.ArtistName = "Adele"

	album := testItem(2, "25")
	album.ArtistName = "Adele"
	album.Kind = "album"

	other := testItem(3, "Something Else")
	other.ArtistName = "Nobody"

	_, err := repo.UpsertAll(ctx, []models.MediaItem{song, album, other})
	require.NoError(t, err)

	items, err := repo.List(ctx, ListQuery{Q: "adele"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.List(ctx, ListQuery{Q: "adele", Kind: "album"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].TrackID)

	count, err := repo.Count(ctx, ListQuery{Kind: "song"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
