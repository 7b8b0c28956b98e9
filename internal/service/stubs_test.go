package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func testClock() *clock.Fake { return clock.NewFake(testNow) }

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getOrCreateFn func(context.Context, string, time.Time) (*models.User, error)
	getByIDFn     func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) GetOrCreate(ctx context.Context, deviceID string, now time.Time) (*models.User, error) {
	return s.getOrCreateFn(ctx, deviceID, now)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, string) (*models.Post, error)
	listFn          func(context.Context, models.Category) ([]models.Post, error)
	listByUserFn    func(context.Context, string) ([]models.Post, error)
	deleteFn        func(context.Context, string, string) (bool, error)
	deleteExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, category models.Category) ([]models.Post, error) {
	return s.listFn(ctx, category)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) Delete(ctx context.Context, id, userID string) (bool, error) {
	return s.deleteFn(ctx, id, userID)
}
func (s *postRepoStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, now)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:          func(_ context.Context, _ models.Category) ([]models.Post, error) { return nil, nil },
		listByUserFn:    func(_ context.Context, _ string) ([]models.Post, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _, _ string) (bool, error) { return true, nil },
		deleteExpiredFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, string) (*models.Comment, error)
	listByPostFn func(context.Context, string) ([]models.Comment, error)
	deleteFn     func(context.Context, string, string) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id, userID string) (bool, error) {
	return s.deleteFn(ctx, id, userID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ string) ([]models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _, _ string) (bool, error) { return true, nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	castFn       func(context.Context, string, models.VoteTarget, models.VoteType, time.Time) (repository.VoteResult, error)
	getFn        func(context.Context, string, models.VoteTarget) (*models.Vote, error)
	listByUserFn func(context.Context, string) ([]models.Vote, error)
}

func (s *voteRepoStub) Cast(ctx context.Context, userID string, target models.VoteTarget, voteType models.VoteType, now time.Time) (repository.VoteResult, error) {
	return s.castFn(ctx, userID, target, voteType, now)
}
func (s *voteRepoStub) Get(ctx context.Context, userID string, target models.VoteTarget) (*models.Vote, error) {
	return s.getFn(ctx, userID, target)
}
func (s *voteRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	return s.listByUserFn(ctx, userID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		castFn: func(_ context.Context, _ string, _ models.VoteTarget, _ models.VoteType, _ time.Time) (repository.VoteResult, error) {
			return repository.VoteResult{Outcome: repository.VoteCreated}, nil
		},
		getFn:        func(_ context.Context, _ string, _ models.VoteTarget) (*models.Vote, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _ string) ([]models.Vote, error) { return nil, nil },
	}
}

// storyRepoStub is a stub for repository.StoryRepository.
type storyRepoStub struct {
	createFn     func(context.Context, *models.Story) error
	listActiveFn func(context.Context, time.Time) ([]models.Story, error)
	listByUserFn func(context.Context, string) ([]models.Story, error)
	viewFn       func(context.Context, string) (bool, error)
	deleteFn     func(context.Context, string, string) (bool, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) ListActive(ctx context.Context, now time.Time) ([]models.Story, error) {
	return s.listActiveFn(ctx, now)
}
func (s *storyRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *storyRepoStub) View(ctx context.Context, id string) (bool, error) {
	return s.viewFn(ctx, id)
}
func (s *storyRepoStub) Delete(ctx context.Context, id, userID string) (bool, error) {
	return s.deleteFn(ctx, id, userID)
}

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn: func(_ context.Context, st *models.Story) error {
			st.ExpiresAt = st.CreatedAt.Add(models.StoryTTL)
			return nil
		},
		listActiveFn: func(_ context.Context, _ time.Time) ([]models.Story, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _ string) ([]models.Story, error) { return nil, nil },
		viewFn:       func(_ context.Context, _ string) (bool, error) { return true, nil },
		deleteFn:     func(_ context.Context, _, _ string) (bool, error) { return true, nil },
	}
}

// pollRepoStub is a stub for repository.PollRepository.
type pollRepoStub struct {
	createFn     func(context.Context, *models.Poll) error
	getByIDFn    func(context.Context, string) (*models.Poll, error)
	listFn       func(context.Context, models.Category, string) ([]models.Poll, error)
	listByUserFn func(context.Context, string) ([]models.Poll, error)
	voteFn       func(context.Context, string, string, string, time.Time) (bool, error)
	deleteFn     func(context.Context, string, string) (bool, error)
}

func (s *pollRepoStub) Create(ctx context.Context, poll *models.Poll) error {
	return s.createFn(ctx, poll)
}
func (s *pollRepoStub) GetByID(ctx context.Context, id string) (*models.Poll, error) {
	return s.getByIDFn(ctx, id)
}
func (s *pollRepoStub) List(ctx context.Context, category models.Category, userID string) ([]models.Poll, error) {
	return s.listFn(ctx, category, userID)
}
func (s *pollRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Poll, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *pollRepoStub) Vote(ctx context.Context, userID, pollID, optionID string, now time.Time) (bool, error) {
	return s.voteFn(ctx, userID, pollID, optionID, now)
}
func (s *pollRepoStub) Delete(ctx context.Context, id, userID string) (bool, error) {
	return s.deleteFn(ctx, id, userID)
}

func noopPollRepo() *pollRepoStub {
	return &pollRepoStub{
		createFn:     func(_ context.Context, _ *models.Poll) error { return nil },
		getByIDFn:    func(_ context.Context, id string) (*models.Poll, error) { return &models.Poll{ID: id}, nil },
		listFn:       func(_ context.Context, _ models.Category, _ string) ([]models.Poll, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _ string) ([]models.Poll, error) { return nil, nil },
		voteFn:       func(_ context.Context, _, _, _ string, _ time.Time) (bool, error) { return true, nil },
		deleteFn:     func(_ context.Context, _, _ string) (bool, error) { return true, nil },
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
