package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusvibe/internal/models"
	"campusvibe/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, category models.Category) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.Upvotes, post.Downvotes, post.CommentCount = 0, 0, 0
	if err := r.db.WithContext(ctx).Omit("User", "Comments", "Votes").Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns posts newest first, optionally restricted to one category.
// Expired posts stay visible until the sweeper removes them.
func (r *postRepository) List(ctx context.Context, category models.Category) ([]models.Post, error) {
	posts := []models.Post{}
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return posts, nil
}

// Delete removes the post when userID owns it. Comments and votes go with it
// through the foreign keys. It reports false when nothing matched.
func (r *postRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Post{})
	if res.Error != nil {
		return false, fmt.Errorf("delete post: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteExpired physically removes every post whose TTL ended before now and
// returns how many were removed.
func (r *postRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	defer observability.TrackQuery("delete_expired", "posts")()

	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.Post{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete_expired")
		return 0, fmt.Errorf("delete expired posts: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"expired": res.RowsAffected, "cutoff": now})
	}
	return res.RowsAffected, nil
}
