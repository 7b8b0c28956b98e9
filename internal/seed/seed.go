package seed

import (
	"context"
	"fmt"
	"time"

	"campusvibe/internal/models"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Users              int
	Posts              int
	MaxCommentsPerPost int
	// VoteChance is the probability that a given user votes on a given post.
	VoteChance float64
	Stories    int
	Polls      int
	RandSeed   int64
	Clean      bool
	// Now anchors every generated timestamp. Zero means time.Now.
	Now time.Time
}

// DefaultOptions returns a small but lively campus.
func DefaultOptions() Options {
	return Options{
		Users:              25,
		Posts:              60,
		MaxCommentsPerPost: 6,
		VoteChance:         0.3,
		Stories:            15,
		Polls:              10,
		RandSeed:           time.Now().UnixNano(),
	}
}

// Summary counts what a Seed run created.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Votes     int
	Stories   int
	Polls     int
	PollVotes int
}

// Seed populates the database with fake activity. Every write goes through
// the repositories, so vote and comment counters match the rows behind them.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Users < 1 {
		return nil, fmt.Errorf("seed needs at least one user")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	log := observability.GlobalLogger
	log.Info("seeding database", "users", opts.Users, "posts", opts.Posts, "stories", opts.Stories, "polls", opts.Polls)

	if opts.Clean {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	var (
		f        = NewFactory(opts.RandSeed, now, 0)
		users    = repository.NewUserRepository(db)
		posts    = repository.NewPostRepository(db)
		comments = repository.NewCommentRepository(db)
		votes    = repository.NewVoteRepository(db, 0)
		stories  = repository.NewStoryRepository(db)
		polls    = repository.NewPollRepository(db)
		sum      = &Summary{}
	)

	userIDs := make([]string, 0, opts.Users)
	for range opts.Users {
		u, err := users.GetOrCreate(ctx, f.DeviceID(), now.Add(-f.maxAge))
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		userIDs = append(userIDs, u.ID)
	}
	sum.Users = len(userIDs)
	pick := func() string { return userIDs[f.Intn(len(userIDs))] }

	for range opts.Posts {
		post := f.Post(pick())
		if err := posts.Create(ctx, post); err != nil {
			return nil, err
		}
		sum.Posts++

		for range f.Intn(opts.MaxCommentsPerPost + 1) {
			c := f.Comment(post, pick())
			if err := comments.Create(ctx, c); err != nil {
				return nil, err
			}
			sum.Comments++
			if f.Chance(opts.VoteChance) {
				if _, err := votes.Cast(ctx, pick(), models.CommentTarget(c.ID), f.VoteType(), c.CreatedAt); err != nil {
					return nil, err
				}
				sum.Votes++
			}
		}

		for _, voter := range userIDs {
			if !f.Chance(opts.VoteChance) {
				continue
			}
			if _, err := votes.Cast(ctx, voter, models.PostTarget(post.ID), f.VoteType(), post.CreatedAt); err != nil {
				return nil, err
			}
			sum.Votes++
		}
	}
	log.Info("posts seeded", "posts", sum.Posts, "comments", sum.Comments, "votes", sum.Votes)

	for range opts.Stories {
		if err := stories.Create(ctx, f.Story(pick())); err != nil {
			return nil, err
		}
		sum.Stories++
	}

	for range opts.Polls {
		poll := f.Poll(pick())
		if err := polls.Create(ctx, poll); err != nil {
			return nil, err
		}
		sum.Polls++
		for _, voter := range userIDs {
			if !f.Chance(opts.VoteChance) {
				continue
			}
			opt := poll.Options[f.Intn(len(poll.Options))]
			accepted, err := polls.Vote(ctx, voter, poll.ID, opt.ID, poll.CreatedAt)
			if err != nil {
				return nil, err
			}
			if accepted {
				sum.PollVotes++
			}
		}
	}

	log.Info("database seeding completed",
		"users", sum.Users, "posts", sum.Posts, "comments", sum.Comments, "votes", sum.Votes,
		"stories", sum.Stories, "polls", sum.Polls, "poll_votes", sum.PollVotes)
	return sum, nil
}

// clearData removes all rows, children first.
func clearData(db *gorm.DB) error {
	observability.GlobalLogger.Info("clearing existing data")
	tables := []any{
		&models.PollVote{}, &models.PollOption{}, &models.Poll{},
		&models.Vote{}, &models.Comment{}, &models.Story{}, &models.Post{}, &models.User{},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
