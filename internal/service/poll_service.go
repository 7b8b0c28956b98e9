package service

import (
	"context"
	"fmt"
	"strings"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PollService struct {
	pollRepo repository.PollRepository
	clock    clock.Clock
}

type CreatePollInput struct {
	UserID         string
	Question       string
	Category       string
	Options        []string
	ExpiresInHours *int
}

type VotePollInput struct {
	UserID   string
	PollID   string
	OptionID string
}

type DeletePollInput struct {
	UserID string
	PollID string
}

func NewPollService(pollRepo repository.PollRepository, clk clock.Clock) *PollService {
	return &PollService{pollRepo: pollRepo, clock: clk}
}

// CreatePoll stores a poll with 2 to 6 options in the order given.
func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	question, err := normalizeContent("Question", in.Question, MaxQuestionLength)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(in.Category, true)
	if err != nil {
		return nil, err
	}
	if len(in.Options) < models.MinPollOptions || len(in.Options) > models.MaxPollOptions {
		return nil, models.NewValidationError(fmt.Sprintf("Poll must have between %d and %d options", models.MinPollOptions, models.MaxPollOptions))
	}
	options := make([]models.PollOption, 0, len(in.Options))
	for i, raw := range in.Options {
		text, err := normalizeContent(fmt.Sprintf("Option %d", i+1), strings.TrimSpace(raw), MaxOptionLength)
		if err != nil {
			return nil, err
		}
		options = append(options, models.PollOption{OptionText: text})
	}
	now := s.clock.Now()
	expiresAt, err := expiryFrom(now, in.ExpiresInHours)
	if err != nil {
		return nil, err
	}

	poll := &models.Poll{
		UserID:    in.UserID,
		Question:  question,
		Category:  category,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		Options:   options,
	}
	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// ListPolls returns polls newest first. With userID set every poll carries
// the option that user voted for.
func (s *PollService) ListPolls(ctx context.Context, category, userID string) ([]models.Poll, error) {
	c, err := parseCategory(category, false)
	if err != nil {
		return nil, err
	}
	return s.pollRepo.List(ctx, c, userID)
}

func (s *PollService) ListUserPolls(ctx context.Context, userID string) ([]models.Poll, error) {
	return s.pollRepo.ListByUser(ctx, userID)
}

// VotePoll records the caller's one and only vote in a poll. A second vote
// in the same poll fails with an ALREADY_VOTED AppError and changes nothing.
func (s *PollService) VotePoll(ctx context.Context, in VotePollInput) error {
	if err := requireID("userId", in.UserID); err != nil {
		return err
	}
	if err := requireID("pollId", in.PollID); err != nil {
		return err
	}
	if err := requireID("optionId", in.OptionID); err != nil {
		return err
	}

	span, ctx := observability.NewSpan(ctx, "PollService.VotePoll",
		attribute.String("poll.id", in.PollID),
		attribute.String("poll.option_id", in.OptionID),
	)
	defer span.End()

	accepted, err := s.pollRepo.Vote(ctx, in.UserID, in.PollID, in.OptionID, s.clock.Now())
	if err != nil {
		observability.PollVotes.WithLabelValues("error").Inc()
		span.SetError(err)
		return err
	}
	if !accepted {
		observability.PollVotes.WithLabelValues("already_voted").Inc()
		return models.NewAlreadyVotedError()
	}
	observability.PollVotes.WithLabelValues("accepted").Inc()
	return nil
}

func (s *PollService) DeletePoll(ctx context.Context, in DeletePollInput) (bool, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return false, err
	}
	return s.pollRepo.Delete(ctx, in.PollID, in.UserID)
}
