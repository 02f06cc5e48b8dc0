package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestRepo(t *testing.T, clock *fakeClock) *MovieRepository {
	t.Helper()

	cfg := &gorm.Config{Logger: logger.Discard}
	if clock != nil {
		cfg.NowFunc = clock.Now
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "movies.db")), cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewMovieRepository(db)
}

func TestInsert_AssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	movie, err := repo.Insert(ctx, "Raising Arizona", "comedy", "1987")
	require.NoError(t, err)

	assert.Positive(t, movie.ID)
	assert.Equal(t, "Raising Arizona", movie.Title)
	assert.Equal(t, "comedy", movie.Genre)
	assert.Equal(t, "1987", movie.Year)
	assert.False(t, movie.CreatedAt.IsZero())
	assert.True(t, movie.CreatedAt.Equal(movie.UpdatedAt))
	assert.Equal(t, "Raising Arizona", movie.String())
}

func TestInsertThenGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	created, err := repo.Insert(ctx, "The Big Lebowski", "comedy", "1998")
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Genre, got.Genre)
	assert.Equal(t, created.Year, got.Year)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t, nil)

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestListAll_EmptyIsNotNil(t *testing.T) {
	repo := newTestRepo(t, nil)

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestListAll_CreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	titles := []string{"The Big Lebowski", "No Country for Old Men", "Fargo"}
	for _, title := range titles {
		_, err := repo.Insert(ctx, title, "drama", "2000")
		require.NoError(t, err)
	}

	movies, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, movies, len(titles))
	for i, m := range movies {
		assert.Equal(t, titles[i], m.Title)
	}
}

func TestUpdate_ReplacesFieldsKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	repo := newTestRepo(t, clock)

	created, err := repo.Insert(ctx, "The Big Lebowski", "comedy", "1998")
	require.NoError(t, err)

	clock.Set(clock.Now().Add(time.Hour))
	updated, err := repo.Update(ctx, created.ID, "The Big Lebowski", "cult", "1997")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "cult", updated.Genre)
	assert.Equal(t, "1997", updated.Year)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(created.UpdatedAt.Add(time.Hour)))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1997", got.Year)
}

func TestUpdate_UpdatedAtNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	repo := newTestRepo(t, clock)

	created, err := repo.Insert(ctx, "Fargo", "crime", "1996")
	require.NoError(t, err)

	clock.Set(start.Add(-time.Minute))
	updated, err := repo.Update(ctx, created.ID, "Fargo", "crime", "1996")
	require.NoError(t, err)

	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newTestRepo(t, nil)

	_, err := repo.Update(context.Background(), 99, "X", "comedy", "2000")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	created, err := repo.Insert(ctx, "Fargo", "crime", "1996")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrMovieNotFound)
}

func TestDelete_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	first, err := repo.Insert(ctx, "One", "drama", "2001")
	require.NoError(t, err)
	second, err := repo.Insert(ctx, "Two", "drama", "2002")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, second.ID))

	third, err := repo.Insert(ctx, "Three", "drama", "2003")
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestCount_TracksCreatesMinusDeletes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	var ids []int64
	for i := 0; i < 4; i++ {
		m, err := repo.Insert(ctx, "Movie", "drama", "2000")
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	require.NoError(t, repo.Delete(ctx, ids[1]))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	movies, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, movies, 3)
}
