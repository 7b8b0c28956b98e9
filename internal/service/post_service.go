package service

import (
	"context"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	clock    clock.Clock
}

type CreatePostInput struct {
	UserID         string
	Content        string
	Category       string
	ImageURL       *string
	VideoURL       *string
	ExpiresInHours *int
}

type DeletePostInput struct {
	UserID string
	PostID string
}

func NewPostService(postRepo repository.PostRepository, clk clock.Clock) *PostService {
	return &PostService{postRepo: postRepo, clock: clk}
}

// CreatePost validates and stores a post. With ExpiresInHours set the post
// is removed by the expiry sweeper once that many hours have passed.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	content, err := normalizeContent("Content", in.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(in.Category, true)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	expiresAt, err := expiryFrom(now, in.ExpiresInHours)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:    in.UserID,
		Content:   content,
		Category:  category,
		ImageURL:  optionalURL(in.ImageURL),
		VideoURL:  optionalURL(in.VideoURL),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	c, err := parseCategory(category, false)
	if err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx, c)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

// DeletePost removes a post owned by the caller. It reports false when the
// post does not exist or belongs to someone else.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (bool, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return false, err
	}
	return s.postRepo.Delete(ctx, in.PostID, in.UserID)
}

// DeleteExpiredPosts physically removes every post whose TTL has passed.
func (s *PostService) DeleteExpiredPosts(ctx context.Context) (int64, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.DeleteExpiredPosts")
	defer span.End()

	n, err := s.postRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	span.AddAttributes(attribute.Int64("posts.expired", n))
	return n, nil
}
