package service

import (
	"context"
	"strings"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/repository"
)

type StoryService struct {
	storyRepo repository.StoryRepository
	clock     clock.Clock
}

type CreateStoryInput struct {
	UserID   string
	ImageURL string
	Caption  *string
}

type DeleteStoryInput struct {
	UserID  string
	StoryID string
}

func NewStoryService(storyRepo repository.StoryRepository, clk clock.Clock) *StoryService {
	return &StoryService{storyRepo: storyRepo, clock: clk}
}

// CreateStory stores a story that stays visible for models.StoryTTL.
func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		return nil, models.NewValidationError("imageUrl is required")
	}
	var caption *string
	if in.Caption != nil && strings.TrimSpace(*in.Caption) != "" {
		c, err := normalizeContent("Caption", *in.Caption, MaxCaptionLength)
		if err != nil {
			return nil, err
		}
		caption = &c
	}

	story := &models.Story{
		UserID:    in.UserID,
		ImageURL:  imageURL,
		Caption:   caption,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// ListActiveStories returns the stories that have not expired yet.
func (s *StoryService) ListActiveStories(ctx context.Context) ([]models.Story, error) {
	return s.storyRepo.ListActive(ctx, s.clock.Now())
}

// ListUserStories returns all of a user's stories, including expired ones.
func (s *StoryService) ListUserStories(ctx context.Context, userID string) ([]models.Story, error) {
	return s.storyRepo.ListByUser(ctx, userID)
}

func (s *StoryService) ViewStory(ctx context.Context, id string) (bool, error) {
	return s.storyRepo.View(ctx, id)
}

func (s *StoryService) DeleteStory(ctx context.Context, in DeleteStoryInput) (bool, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return false, err
	}
	return s.storyRepo.Delete(ctx, in.StoryID, in.UserID)
}
