package service

import (
	"context"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	clock       clock.Clock
}

type CreateCommentInput struct {
	UserID  string
	PostID  string
	Content string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	clk clock.Clock,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		clock:       clk,
	}
}

// CreateComment stores a comment and bumps the parent post's comment count.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	if err := requireID("postId", in.PostID); err != nil {
		return nil, err
	}
	content, err := normalizeContent("Content", in.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		UserID:    in.UserID,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment owned by the caller and decrements the
// parent's count. It reports false when there was nothing to delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (bool, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return false, err
	}
	return s.commentRepo.Delete(ctx, in.CommentID, in.UserID)
}
