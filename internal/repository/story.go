package repository

import (
	"context"
	"fmt"
	"time"

	"campusvibe/internal/cache"
	"campusvibe/internal/models"

	"gorm.io/gorm"
)

// StoryRepository persists stories. Expiry is applied when reading; expired
// rows are only removed by their owner.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	ListActive(ctx context.Context, now time.Time) ([]models.Story, error)
	ListByUser(ctx context.Context, userID string) ([]models.Story, error)
	View(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

// Create stores the story with ExpiresAt fixed to CreatedAt plus StoryTTL.
func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	story.ViewCount = 0
	if err := r.db.WithContext(ctx).Omit("User").Create(story).Error; err != nil {
		return fmt.Errorf("create story: %w", err)
	}
	cache.InvalidateStoryFeed(ctx)
	return nil
}

// ListActive returns stories with expires_at after now, newest first. The
// cached feed is filtered again so entries that expired since caching drop out.
func (r *storyRepository) ListActive(ctx context.Context, now time.Time) ([]models.Story, error) {
	var feed []models.Story
	err := cache.Aside(ctx, cache.StoryFeedKey, &feed, cache.StoryFeedTTL, func() error {
		feed = []models.Story{}
		return r.db.WithContext(ctx).
			Where("expires_at > ?", now).
			Order("created_at DESC").
			Find(&feed).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list active stories: %w", err)
	}

	active := make([]models.Story, 0, len(feed))
	for _, s := range feed {
		if s.Active(now) {
			active = append(active, s)
		}
	}
	return active, nil
}

// ListByUser returns every story of a user, expired or not, newest first.
func (r *storyRepository) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	stories := []models.Story{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list user stories: %w", err)
	}
	return stories, nil
}

// View increments the view counter and reports whether the story exists.
func (r *storyRepository) View(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return false, fmt.Errorf("view story: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateStoryFeed(ctx)
	}
	return res.RowsAffected > 0, nil
}

func (r *storyRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Story{})
	if res.Error != nil {
		return false, fmt.Errorf("delete story: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateStoryFeed(ctx)
	}
	return res.RowsAffected > 0, nil
}
