package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusvibe/internal/models"
	"campusvibe/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteService_Vote_Validation(t *testing.T) {
	t.Parallel()

	svc := NewVoteService(noopVoteRepo(), testClock())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CastVoteInput
	}{
		{"missing user", CastVoteInput{PostID: strPtr("p1"), VoteType: 1}},
		{"zero vote type", CastVoteInput{UserID: "u1", PostID: strPtr("p1"), VoteType: 0}},
		{"vote type out of range", CastVoteInput{UserID: "u1", PostID: strPtr("p1"), VoteType: 2}},
		{"no target", CastVoteInput{UserID: "u1", VoteType: 1}},
		{"empty target ids", CastVoteInput{UserID: "u1", PostID: strPtr(""), CommentID: strPtr(""), VoteType: 1}},
		{"both targets", CastVoteInput{UserID: "u1", PostID: strPtr("p1"), CommentID: strPtr("c1"), VoteType: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Vote(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestVoteService_Vote_PassesTarget(t *testing.T) {
	t.Parallel()

	var (
		gotTarget models.VoteTarget
		gotType   models.VoteType
		gotNow    time.Time
	)
	repo := noopVoteRepo()
	repo.castFn = func(_ context.Context, userID string, target models.VoteTarget, vt models.VoteType, now time.Time) (repository.VoteResult, error) {
		gotTarget, gotType, gotNow = target, vt, now
		return repository.VoteResult{
			Counts:  models.VoteCounts{Upvotes: 0, Downvotes: 1},
			Outcome: repository.VoteSwitched,
		}, nil
	}
	svc := NewVoteService(repo, testClock())

	counts, err := svc.Vote(context.Background(), CastVoteInput{UserID: "u1", CommentID: strPtr("c9"), VoteType: -1})
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Upvotes: 0, Downvotes: 1}, counts)
	assert.Equal(t, models.TargetComment, gotTarget.Kind())
	assert.Equal(t, "c9", gotTarget.ID())
	assert.Equal(t, models.VoteDown, gotType)
	assert.Equal(t, testNow, gotNow)
}

func TestVoteService_Vote_MissingTargetIsSoft(t *testing.T) {
	t.Parallel()

	repo := noopVoteRepo()
	repo.castFn = func(_ context.Context, _ string, _ models.VoteTarget, _ models.VoteType, _ time.Time) (repository.VoteResult, error) {
		return repository.VoteResult{Outcome: repository.VoteTargetMissing}, nil
	}
	svc := NewVoteService(repo, testClock())

	counts, err := svc.Vote(context.Background(), CastVoteInput{UserID: "u1", PostID: strPtr("gone"), VoteType: 1})
	require.NoError(t, err)
	assert.Zero(t, counts)
}

func TestVoteService_Vote_StorageError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection refused")
	repo := noopVoteRepo()
	repo.castFn = func(_ context.Context, _ string, _ models.VoteTarget, _ models.VoteType, _ time.Time) (repository.VoteResult, error) {
		return repository.VoteResult{}, repoErr
	}
	svc := NewVoteService(repo, testClock())

	_, err := svc.Vote(context.Background(), CastVoteInput{UserID: "u1", PostID: strPtr("p1"), VoteType: 1})
	assert.ErrorIs(t, err, repoErr)
}

func TestVoteService_GetUserVote(t *testing.T) {
	t.Parallel()

	repo := noopVoteRepo()
	repo.getFn = func(_ context.Context, userID string, target models.VoteTarget) (*models.Vote, error) {
		if target.ID() == "p1" {
			id := target.ID()
			return &models.Vote{UserID: userID, PostID: &id, VoteType: models.VoteUp}, nil
		}
		return nil, nil
	}
	svc := NewVoteService(repo, testClock())
	ctx := context.Background()

	v, err := svc.GetUserVote(ctx, "u1", strPtr("p1"), nil)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, models.VoteUp, v.VoteType)

	v, err = svc.GetUserVote(ctx, "u1", strPtr("p2"), nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = svc.GetUserVote(ctx, "u1", nil, nil)
	assertValidationError(t, err)
}

func TestVoteService_GetUserVote_RequiresUser(t *testing.T) {
	t.Parallel()

	repo := noopVoteRepo()
	repo.getFn = func(context.Context, string, models.VoteTarget) (*models.Vote, error) {
		t.Fatal("repository must not be queried without a user")
		return nil, nil
	}
	svc := NewVoteService(repo, testClock())

	for _, userID := range []string{"", "   "} {
		_, err := svc.GetUserVote(context.Background(), userID, strPtr("p1"), nil)
		assertValidationError(t, err)
	}
}

func TestVoteService_ListUserVotes(t *testing.T) {
	t.Parallel()

	svc := NewVoteService(noopVoteRepo(), testClock())
	_, err := svc.ListUserVotes(context.Background(), "")
	assertValidationError(t, err)

	votes, err := svc.ListUserVotes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestMetricOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "created", metricOutcome(repository.VoteCreated))
	assert.Equal(t, "removed", metricOutcome(repository.VoteRemoved))
	assert.Equal(t, "switched", metricOutcome(repository.VoteSwitched))
	assert.Equal(t, "target_missing", metricOutcome(repository.VoteTargetMissing))
}
