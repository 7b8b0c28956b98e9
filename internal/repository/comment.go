package repository

import (
	"context"
	"errors"
	"fmt"

	"campusvibe/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// Create and Delete keep posts.comment_count in step with the comments table.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the parent's counter in one
// transaction. A missing parent post yields a NOT_FOUND AppError.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.Upvotes, comment.Downvotes = 0, 0
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment comment count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", comment.PostID)
		}
		if err := tx.Omit("User", "Votes").Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByPost returns the comments of a post, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Delete removes the comment when userID owns it and decrements the parent's
// counter in the same transaction. It reports false when the comment does
// not exist or belongs to someone else.
func (r *commentRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		res := tx.Where("id = ? AND user_id = ?", id, userID).Limit(1).Find(&comment)
		if res.Error != nil {
			return fmt.Errorf("load comment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		res = tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Comment{})
		if res.Error != nil {
			return fmt.Errorf("delete comment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Removed by a concurrent request between the read and the delete.
			return nil
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ? AND comment_count > 0", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error; err != nil {
			return fmt.Errorf("decrement comment count: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
