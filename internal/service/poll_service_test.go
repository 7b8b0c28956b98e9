package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campusvibe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollService_CreatePoll_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPollService(noopPollRepo(), testClock())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePollInput
	}{
		{"empty question", CreatePollInput{UserID: "u1", Question: " ", Category: "meme", Options: []string{"a", "b"}}},
		{"bad category", CreatePollInput{UserID: "u1", Question: "q", Category: "sports", Options: []string{"a", "b"}}},
		{"one option", CreatePollInput{UserID: "u1", Question: "q", Category: "meme", Options: []string{"a"}}},
		{"seven options", CreatePollInput{UserID: "u1", Question: "q", Category: "meme", Options: strings.Split("abcdefg", "")}},
		{"blank option", CreatePollInput{UserID: "u1", Question: "q", Category: "meme", Options: []string{"a", "  "}}},
		{"bad expiry", CreatePollInput{UserID: "u1", Question: "q", Category: "meme", Options: []string{"a", "b"}, ExpiresInHours: intPtr(-1)}},
		{"missing user", CreatePollInput{Question: "q", Category: "meme", Options: []string{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePoll(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestPollService_CreatePoll_Success(t *testing.T) {
	t.Parallel()

	var stored *models.Poll
	repo := noopPollRepo()
	repo.createFn = func(_ context.Context, p *models.Poll) error {
		stored = p
		return nil
	}
	svc := NewPollService(repo, testClock())

	poll, err := svc.CreatePoll(context.Background(), CreatePollInput{
		UserID:         "u1",
		Question:       " Best dining hall? ",
		Category:       "rant",
		Options:        []string{" North ", "South", "Neither"},
		ExpiresInHours: intPtr(24),
	})
	require.NoError(t, err)
	require.Same(t, stored, poll)
	assert.Equal(t, "Best dining hall?", poll.Question)
	require.Len(t, poll.Options, 3)
	assert.Equal(t, "North", poll.Options[0].OptionText)
	assert.Equal(t, "Neither", poll.Options[2].OptionText)
	require.NotNil(t, poll.ExpiresAt)
	assert.Equal(t, testNow.Add(24*time.Hour), *poll.ExpiresAt)
}

func TestPollService_VotePoll(t *testing.T) {
	t.Parallel()

	voted := map[string]bool{}
	repo := noopPollRepo()
	repo.voteFn = func(_ context.Context, userID, pollID, _ string, _ time.Time) (bool, error) {
		key := userID + "/" + pollID
		if voted[key] {
			return false, nil
		}
		voted[key] = true
		return true, nil
	}
	svc := NewPollService(repo, testClock())
	ctx := context.Background()

	require.NoError(t, svc.VotePoll(ctx, VotePollInput{UserID: "x", PollID: "p", OptionID: "A"}))

	err := svc.VotePoll(ctx, VotePollInput{UserID: "x", PollID: "p", OptionID: "B"})
	assertAppError(t, err, models.CodeAlreadyVoted)
	assert.Equal(t, 400, models.StatusFor(err))

	require.NoError(t, svc.VotePoll(ctx, VotePollInput{UserID: "y", PollID: "p", OptionID: "B"}))
}

func TestPollService_VotePoll_Errors(t *testing.T) {
	t.Parallel()

	svc := NewPollService(noopPollRepo(), testClock())
	ctx := context.Background()

	assertValidationError(t, svc.VotePoll(ctx, VotePollInput{UserID: "x", PollID: "p"}))
	assertValidationError(t, svc.VotePoll(ctx, VotePollInput{UserID: "x", OptionID: "o"}))

	repo := noopPollRepo()
	repo.voteFn = func(_ context.Context, _, _, optionID string, _ time.Time) (bool, error) {
		return false, models.NewNotFoundError("Poll option", optionID)
	}
	svc = NewPollService(repo, testClock())
	assertAppError(t, svc.VotePoll(ctx, VotePollInput{UserID: "x", PollID: "p", OptionID: "foreign"}), models.CodeNotFound)

	repoErr := errors.New("deadlock")
	repo.voteFn = func(_ context.Context, _, _, _ string, _ time.Time) (bool, error) { return false, repoErr }
	assert.ErrorIs(t, svc.VotePoll(ctx, VotePollInput{UserID: "x", PollID: "p", OptionID: "o"}), repoErr)
}

func TestPollService_ListPolls(t *testing.T) {
	t.Parallel()

	var (
		gotCategory models.Category
		gotUser     string
	)
	repo := noopPollRepo()
	repo.listFn = func(_ context.Context, c models.Category, userID string) ([]models.Poll, error) {
		gotCategory, gotUser = c, userID
		return []models.Poll{{ID: "p1"}}, nil
	}
	svc := NewPollService(repo, testClock())

	polls, err := svc.ListPolls(context.Background(), "compliment", "u1")
	require.NoError(t, err)
	assert.Len(t, polls, 1)
	assert.Equal(t, models.CategoryCompliment, gotCategory)
	assert.Equal(t, "u1", gotUser)

	_, err = svc.ListPolls(context.Background(), "bogus", "")
	assertValidationError(t, err)
}

func TestPollService_DeletePoll(t *testing.T) {
	t.Parallel()

	repo := noopPollRepo()
	repo.deleteFn = func(_ context.Context, id, userID string) (bool, error) { return userID == "owner", nil }
	svc := NewPollService(repo, testClock())

	ok, err := svc.DeletePoll(context.Background(), DeletePollInput{UserID: "other", PollID: "p"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeletePoll(context.Background(), DeletePollInput{UserID: "owner", PollID: "p"})
	require.NoError(t, err)
	assert.True(t, ok)
}
