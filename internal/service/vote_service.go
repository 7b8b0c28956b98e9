package service

import (
	"context"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type VoteService struct {
	voteRepo repository.VoteRepository
	clock    clock.Clock
}

// CastVoteInput names exactly one of PostID and CommentID.
type CastVoteInput struct {
	UserID    string
	PostID    *string
	CommentID *string
	VoteType  int
}

func NewVoteService(voteRepo repository.VoteRepository, clk clock.Clock) *VoteService {
	return &VoteService{voteRepo: voteRepo, clock: clk}
}

// Vote toggles or switches the caller's vote on a post or comment and returns
// the target's counters afterwards. A target that does not exist yields zero
// counters and no error.
func (s *VoteService) Vote(ctx context.Context, in CastVoteInput) (models.VoteCounts, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return models.VoteCounts{}, err
	}
	voteType := models.VoteType(in.VoteType)
	if !voteType.Valid() {
		return models.VoteCounts{}, models.NewValidationError("voteType must be 1 or -1")
	}
	target, err := models.ParseVoteTarget(in.PostID, in.CommentID)
	if err != nil {
		return models.VoteCounts{}, models.NewValidationError(err.Error())
	}

	span, ctx := observability.NewSpan(ctx, "VoteService.Vote",
		attribute.String("vote.target", target.String()),
		attribute.Int("vote.type", in.VoteType),
	)
	defer span.End()

	res, err := s.voteRepo.Cast(ctx, in.UserID, target, voteType, s.clock.Now())
	if err != nil {
		span.SetError(err)
		return models.VoteCounts{}, err
	}

	kind := "post"
	if target.Kind() == models.TargetComment {
		kind = "comment"
	}
	observability.VotesCast.WithLabelValues(kind, metricOutcome(res.Outcome)).Inc()
	span.AddAttributes(attribute.String("vote.outcome", string(res.Outcome)))
	return res.Counts, nil
}

func metricOutcome(o repository.VoteOutcome) string {
	switch o {
	case repository.VoteCreated:
		return observability.VoteOutcomeCreated
	case repository.VoteRemoved:
		return observability.VoteOutcomeRemoved
	case repository.VoteSwitched:
		return observability.VoteOutcomeSwitched
	default:
		return observability.VoteOutcomeMissing
	}
}

// GetUserVote returns the caller's vote on one target, or nil when there is none.
func (s *VoteService) GetUserVote(ctx context.Context, userID string, postID, commentID *string) (*models.Vote, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	target, err := models.ParseVoteTarget(postID, commentID)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.voteRepo.Get(ctx, userID, target)
}

func (s *VoteService) ListUserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	return s.voteRepo.ListByUser(ctx, userID)
}
