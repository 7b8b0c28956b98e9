package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusvibe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CountStaysInSync(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "u")
	post := createPost(t, db, u.ID, nil)

	const n, m = 5, 3
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, createComment(t, db, post.ID, u.ID).ID)
	}
	assert.Equal(t, n, reloadPost(t, db, post.ID).CommentCount)

	for _, id := range ids[:m] {
		ok, err := repo.Delete(ctx, id, u.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	stored := reloadPost(t, db, post.ID)
	assert.Equal(t, n-m, stored.CommentCount)
	assert.Equal(t, int64(stored.CommentCount), countRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
}

func TestCommentRepository_DeleteRequiresOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	post := createPost(t, db, owner.ID, nil)
	c := createComment(t, db, post.ID, owner.ID)

	ok, err := repo.Delete(ctx, c.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, "missing", owner.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, reloadPost(t, db, post.ID).CommentCount)

	ok, err = repo.Delete(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete finds nothing")
	assert.Equal(t, 0, reloadPost(t, db, post.ID).CommentCount)
}

func TestCommentRepository_CreateOnMissingPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	u := createUser(t, db, "u")

	err := repo.Create(context.Background(), &models.Comment{PostID: "missing", UserID: u.ID, Content: "hello", CreatedAt: baseTime})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Zero(t, countRows(t, db, &models.Comment{}, "1 = 1"))
}

func TestCommentRepository_ListByPostNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "u")
	post := createPost(t, db, u.ID, nil)
	first := &models.Comment{PostID: post.ID, UserID: u.ID, Content: "first", CreatedAt: baseTime}
	second := &models.Comment{PostID: post.ID, UserID: u.ID, Content: "second", CreatedAt: baseTime.Add(time.Second)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)

	_, err = repo.GetByID(ctx, "missing")
	assert.Error(t, err)
}
