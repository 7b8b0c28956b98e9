package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusvibe/internal/cache"
	"campusvibe/internal/models"
	"campusvibe/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PollRepository persists polls and enforces one permanent vote per user per poll.
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	GetByID(ctx context.Context, id string) (*models.Poll, error)
	List(ctx context.Context, category models.Category, userID string) ([]models.Poll, error)
	ListByUser(ctx context.Context, userID string) ([]models.Poll, error)
	Vote(ctx context.Context, userID, pollID, optionID string, now time.Time) (bool, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create stores the poll and its options in one transaction. Options keep
// the order they were given in.
func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	poll.TotalVotes = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(poll).Error; err != nil {
			return fmt.Errorf("create poll: %w", err)
		}
		for i := range poll.Options {
			opt := &poll.Options[i]
			opt.PollID = poll.ID
			opt.Position = i
			opt.VoteCount = 0
			if err := tx.Omit(clause.Associations).Create(opt).Error; err != nil {
				return fmt.Errorf("create poll option %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePollLists(ctx)
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).Preload("Options", orderedOptions).First(&poll, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poll", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &poll, nil
}

// List returns polls newest first with their options. When userID is set,
// each poll carries the option that user picked, if any.
func (r *pollRepository) List(ctx context.Context, category models.Category, userID string) ([]models.Poll, error) {
	var polls []models.Poll
	err := cache.Aside(ctx, cache.PollListKey(category), &polls, cache.PollListTTL, func() error {
		polls = []models.Poll{}
		q := r.db.WithContext(ctx).Preload("Options", orderedOptions).Order("created_at DESC")
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q.Find(&polls).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	if userID == "" || len(polls) == 0 {
		return polls, nil
	}
	if err := r.attachUserChoices(ctx, polls, userID); err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) attachUserChoices(ctx context.Context, polls []models.Poll, userID string) error {
	ids := make([]string, len(polls))
	for i := range polls {
		ids[i] = polls[i].ID
	}

	var votes []models.PollVote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND poll_id IN ?", userID, ids).
		Find(&votes).Error; err != nil {
		return fmt.Errorf("load poll choices: %w", err)
	}

	chosen := make(map[string]string, len(votes))
	for _, v := range votes {
		chosen[v.PollID] = v.OptionID
	}
	for i := range polls {
		if optionID, ok := chosen[polls[i].ID]; ok {
			polls[i].UserVotedOptionID = &optionID
		}
	}
	return nil
}

func (r *pollRepository) ListByUser(ctx context.Context, userID string) ([]models.Poll, error) {
	polls := []models.Poll{}
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("list user polls: %w", err)
	}
	return polls, nil
}

// Vote records userID's choice of optionID in pollID. It returns false
// without writing anything when the user already voted in this poll, whatever
// option they chose then. A vote is never changed or withdrawn. An option that
// does not belong to the poll yields a NOT_FOUND AppError.
func (r *pollRepository) Vote(ctx context.Context, userID, pollID, optionID string, now time.Time) (bool, error) {
	defer observability.TrackQuery("vote", "poll_votes")()

	accepted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior int64
		if err := tx.Model(&models.PollVote{}).
			Where("poll_id = ? AND user_id = ?", pollID, userID).
			Count(&prior).Error; err != nil {
			return fmt.Errorf("check poll vote: %w", err)
		}
		if prior > 0 {
			return nil
		}

		var option models.PollOption
		if err := tx.Where("id = ? AND poll_id = ?", optionID, pollID).Take(&option).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Poll option", optionID)
			}
			return fmt.Errorf("load poll option: %w", err)
		}

		vote := models.PollVote{PollID: pollID, OptionID: optionID, UserID: userID, CreatedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return fmt.Errorf("insert poll vote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent request of the same user won the unique index.
			return nil
		}

		if err := tx.Model(&models.PollOption{}).
			Where("id = ?", optionID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("increment option votes: %w", err)
		}
		if err := tx.Model(&models.Poll{}).
			Where("id = ?", pollID).
			UpdateColumn("total_votes", gorm.Expr("total_votes + ?", 1)).Error; err != nil {
			return fmt.Errorf("increment poll votes: %w", err)
		}
		accepted = true
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	if accepted {
		cache.InvalidatePollLists(ctx)
	}
	return accepted, nil
}

// Delete removes the poll when userID owns it; options and votes cascade.
func (r *pollRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Poll{})
	if res.Error != nil {
		return false, fmt.Errorf("delete poll: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePollLists(ctx)
	}
	return res.RowsAffected > 0, nil
}
