package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusvibe/internal/models"
	"campusvibe/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteOutcome is the state transition a Cast performed.
type VoteOutcome string

// Vote state transitions.
const (
	VoteCreated       VoteOutcome = "created"
	VoteRemoved       VoteOutcome = "removed"
	VoteSwitched      VoteOutcome = "switched"
	VoteTargetMissing VoteOutcome = "target_missing"
)

// VoteResult is what a Cast did and the target's counters afterwards.
type VoteResult struct {
	Counts  models.VoteCounts
	Outcome VoteOutcome
}

// VoteRepository is the toggle/switch vote engine for posts and comments.
type VoteRepository interface {
	Cast(ctx context.Context, userID string, target models.VoteTarget, voteType models.VoteType, now time.Time) (VoteResult, error)
	Get(ctx context.Context, userID string, target models.VoteTarget) (*models.Vote, error)
	ListByUser(ctx context.Context, userID string) ([]models.Vote, error)
}

type voteRepository struct {
	db         *gorm.DB
	maxRetries uint
	log        *observability.RepoLogger
}

// NewVoteRepository returns the vote engine. maxRetries bounds how often a
// vote that lost a race is replayed; values below 1 mean DefaultMaxRetries.
func NewVoteRepository(db *gorm.DB, maxRetries int) VoteRepository {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	return &voteRepository{db: db, maxRetries: uint(maxRetries), log: observability.NewRepoLogger("votes")}
}

// Cast applies a vote by userID on target:
//
//   - no existing vote: insert it and add one to the matching counter
//   - same type as the existing vote: delete it and take one off the counter
//   - opposite type: flip it and move one from the old counter to the new
//
// The vote row and the counters change in one transaction. When the target
// does not exist nothing is written and zero counts are returned with
// VoteTargetMissing. Losing a race against another request of the same user
// replays the whole transaction.
func (r *voteRepository) Cast(ctx context.Context, userID string, target models.VoteTarget, voteType models.VoteType, now time.Time) (VoteResult, error) {
	if target.IsZero() {
		return VoteResult{}, models.ErrAmbiguousTarget
	}
	if !voteType.Valid() {
		return VoteResult{}, fmt.Errorf("invalid vote type %d", voteType)
	}
	defer observability.TrackQuery("cast", "votes")()

	return withConflictRetry(ctx, r.log, "cast", r.maxRetries, func() (VoteResult, error) {
		return r.castOnce(ctx, userID, target, voteType, now)
	})
}

func (r *voteRepository) castOnce(ctx context.Context, userID string, target models.VoteTarget, voteType models.VoteType, now time.Time) (VoteResult, error) {
	var result VoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Table(target.Table()).Where("id = ?", target.ID()).Count(&exists).Error; err != nil {
			return fmt.Errorf("check vote target: %w", err)
		}
		if exists == 0 {
			result = VoteResult{Outcome: VoteTargetMissing}
			return nil
		}

		existing, err := findVote(tx, userID, target)
		if err != nil {
			return err
		}

		var upDelta, downDelta int
		switch {
		case existing == nil:
			vote := models.Vote{UserID: userID, VoteType: voteType, CreatedAt: now}
			id := target.ID()
			if target.Kind() == models.TargetComment {
				vote.CommentID = &id
			} else {
				vote.PostID = &id
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
			if res.Error != nil {
				return fmt.Errorf("insert vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return errWriteConflict
			}
			upDelta, downDelta = delta(voteType, 1)
			result.Outcome = VoteCreated

		case existing.VoteType == voteType:
			res := tx.Where("id = ? AND vote_type = ?", existing.ID, existing.VoteType).Delete(&models.Vote{})
			if res.Error != nil {
				return fmt.Errorf("delete vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return errWriteConflict
			}
			upDelta, downDelta = delta(voteType, -1)
			result.Outcome = VoteRemoved

		default:
			res := tx.Model(&models.Vote{}).
				Where("id = ? AND vote_type = ?", existing.ID, existing.VoteType).
				UpdateColumn("vote_type", voteType)
			if res.Error != nil {
				return fmt.Errorf("switch vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return errWriteConflict
			}
			addUp, addDown := delta(voteType, 1)
			subUp, subDown := delta(existing.VoteType, -1)
			upDelta, downDelta = addUp+subUp, addDown+subDown
			result.Outcome = VoteSwitched
		}

		if err := tx.Table(target.Table()).
			Where("id = ?", target.ID()).
			UpdateColumns(map[string]interface{}{
				"upvotes":   gorm.Expr("upvotes + ?", upDelta),
				"downvotes": gorm.Expr("downvotes + ?", downDelta),
			}).Error; err != nil {
			return fmt.Errorf("adjust vote counters: %w", err)
		}

		if err := tx.Table(target.Table()).
			Select("upvotes", "downvotes").
			Where("id = ?", target.ID()).
			Take(&result.Counts).Error; err != nil {
			return fmt.Errorf("read vote counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}
	return result, nil
}

// delta returns the (upvotes, downvotes) change of adding n votes of type t.
func delta(t models.VoteType, n int) (int, int) {
	if t == models.VoteUp {
		return n, 0
	}
	return 0, n
}

func findVote(db *gorm.DB, userID string, target models.VoteTarget) (*models.Vote, error) {
	var vote models.Vote
	err := db.Where("user_id = ? AND "+target.Column()+" = ?", userID, target.ID()).Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vote: %w", err)
	}
	return &vote, nil
}

// Get returns the user's vote on target, or nil when there is none.
func (r *voteRepository) Get(ctx context.Context, userID string, target models.VoteTarget) (*models.Vote, error) {
	if target.IsZero() {
		return nil, models.ErrAmbiguousTarget
	}
	return findVote(r.db.WithContext(ctx), userID, target)
}

func (r *voteRepository) ListByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	votes := []models.Vote{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}
