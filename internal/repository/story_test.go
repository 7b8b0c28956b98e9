package repository

import (
	"context"
	"testing"
	"time"

	"campusvibe/internal/cache"
	"campusvibe/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStory(t *testing.T, repo StoryRepository, userID string, createdAt time.Time) *models.Story {
	t.Helper()
	s := &models.Story{UserID: userID, ImageURL: "https://cdn.example.com/s.jpg", CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestStoryRepository_VisibilityWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "u")
	s := createStory(t, repo, u.ID, baseTime)
	assert.Equal(t, baseTime.Add(24*time.Hour), s.ExpiresAt)

	active, err := repo.ListActive(ctx, baseTime.Add(23*time.Hour+59*time.Minute))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, s.ID, active[0].ID)

	active, err = repo.ListActive(ctx, baseTime.Add(24*time.Hour+time.Minute))
	require.NoError(t, err)
	assert.Empty(t, active)

	// Expired stories are kept and still listed for their owner.
	mine, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestStoryRepository_ActiveNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db)
	u := createUser(t, db, "u")

	createStory(t, repo, u.ID, baseTime)
	newer := createStory(t, repo, u.ID, baseTime.Add(time.Hour))

	active, err := repo.ListActive(context.Background(), baseTime.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID)
}

func TestStoryRepository_ViewAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	s := createStory(t, repo, owner.ID, baseTime)

	for i := 0; i < 3; i++ {
		ok, err := repo.View(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.View(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	var stored models.Story
	require.NoError(t, db.First(&stored, "id = ?", s.ID).Error)
	assert.Equal(t, 3, stored.ViewCount)

	ok, err = repo.Delete(ctx, s.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, s.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, countRows(t, db, &models.Story{}, "1 = 1"))
}

func TestStoryRepository_CachedFeedDropsExpired(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		cache.SetClient(nil)
		mr.Close()
	})

	db := setupTestDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "u")

	early := createStory(t, repo, u.ID, baseTime)
	late := createStory(t, repo, u.ID, baseTime.Add(12*time.Hour))

	active, err := repo.ListActive(ctx, baseTime.Add(13*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.True(t, mr.Exists(cache.StoryFeedKey))

	// Served from cache, but the first story has expired in the meantime.
	active, err = repo.ListActive(ctx, baseTime.Add(24*time.Hour+time.Minute))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, late.ID, active[0].ID)

	ok, err := repo.Delete(ctx, early.ID, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, mr.Exists(cache.StoryFeedKey))
}

func TestStoryRepository_ViewRefreshesCachedFeed(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		cache.SetClient(nil)
		mr.Close()
	})

	db := setupTestDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "u")
	s := createStory(t, repo, u.ID, baseTime)
	now := baseTime.Add(time.Hour)

	active, err := repo.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Zero(t, active[0].ViewCount)
	require.True(t, mr.Exists(cache.StoryFeedKey))

	ok, err := repo.View(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
	assert.True(t, mr.Exists(cache.StoryFeedKey))

	ok, err = repo.View(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, mr.Exists(cache.StoryFeedKey))

	active, err = repo.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].ViewCount)
}
