package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campusvibe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), testClock())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing user", CreatePostInput{Content: "hi", Category: "meme"}},
		{"empty content", CreatePostInput{UserID: "u1", Content: "   ", Category: "meme"}},
		{"content too long", CreatePostInput{UserID: "u1", Content: strings.Repeat("x", MaxContentLength+1), Category: "meme"}},
		{"missing category", CreatePostInput{UserID: "u1", Content: "hi"}},
		{"unknown category", CreatePostInput{UserID: "u1", Content: "hi", Category: "gossip"}},
		{"zero expiry", CreatePostInput{UserID: "u1", Content: "hi", Category: "meme", ExpiresInHours: intPtr(0)}},
		{"expiry over a week", CreatePostInput{UserID: "u1", Content: "hi", Category: "meme", ExpiresInHours: intPtr(MaxExpiryHours + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	var stored *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		stored = p
		return nil
	}
	svc := NewPostService(repo, testClock())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:         "u1",
		Content:        "  someone left a cat in the lab  ",
		Category:       "Confession",
		ImageURL:       strPtr("https://cdn.example.com/cat.png"),
		VideoURL:       strPtr("  "),
		ExpiresInHours: intPtr(6),
	})
	require.NoError(t, err)
	require.Same(t, stored, post)
	assert.Equal(t, "someone left a cat in the lab", post.Content)
	assert.Equal(t, models.CategoryConfession, post.Category)
	assert.Equal(t, testNow, post.CreatedAt)
	require.NotNil(t, post.ExpiresAt)
	assert.Equal(t, testNow.Add(6*time.Hour), *post.ExpiresAt)
	require.NotNil(t, post.ImageURL)
	assert.Nil(t, post.VideoURL)
}

func TestPostService_CreatePost_NoExpiry(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), testClock())
	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: "u1", Content: "hi", Category: "rant"})
	require.NoError(t, err)
	assert.Nil(t, post.ExpiresAt)
}

func TestPostService_ListPosts_Category(t *testing.T) {
	t.Parallel()

	var got models.Category
	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, c models.Category) ([]models.Post, error) {
		got = c
		return []models.Post{{ID: "p1"}}, nil
	}
	svc := NewPostService(repo, testClock())

	posts, err := svc.ListPosts(context.Background(), "crush")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, models.CategoryCrush, got)

	_, err = svc.ListPosts(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.Category(""), got)

	_, err = svc.ListPosts(context.Background(), "nope")
	assertValidationError(t, err)
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.deleteFn = func(_ context.Context, id, userID string) (bool, error) {
		return id == "p1" && userID == "owner", nil
	}
	svc := NewPostService(repo, testClock())
	ctx := context.Background()

	ok, err := svc.DeletePost(ctx, DeletePostInput{UserID: "owner", PostID: "p1"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeletePost(ctx, DeletePostInput{UserID: "intruder", PostID: "p1"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.DeletePost(ctx, DeletePostInput{PostID: "p1"})
	assertValidationError(t, err)
}

func TestPostService_DeleteExpiredPosts_UsesClock(t *testing.T) {
	t.Parallel()

	clk := testClock()
	var cutoff time.Time
	repo := noopPostRepo()
	repo.deleteExpiredFn = func(_ context.Context, now time.Time) (int64, error) {
		cutoff = now
		return 4, nil
	}
	svc := NewPostService(repo, clk)

	clk.Advance(61 * time.Minute)
	n, err := svc.DeleteExpiredPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, testNow.Add(61*time.Minute), cutoff)

	repoErr := errors.New("db down")
	repo.deleteExpiredFn = func(_ context.Context, _ time.Time) (int64, error) { return 0, repoErr }
	_, err = svc.DeleteExpiredPosts(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
