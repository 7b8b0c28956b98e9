// Command main fills a development database with fake campus activity.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"campusvibe/internal/config"
	"campusvibe/internal/database"
	"campusvibe/internal/middleware"
	"campusvibe/internal/observability"
	"campusvibe/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	numPosts := flag.Int("posts", defaults.Posts, "Number of posts to create")
	maxComments := flag.Int("comments", defaults.MaxCommentsPerPost, "Maximum comments per post")
	voteChance := flag.Float64("vote-chance", defaults.VoteChance, "Probability that a user votes on a post or poll")
	numStories := flag.Int("stories", defaults.Stories, "Number of stories to create")
	numPolls := flag.Int("polls", defaults.Polls, "Number of polls to create")
	randSeed := flag.Int64("rand-seed", time.Now().UnixNano(), "Seed for the fake data generator")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)
	observability.SetGlobalLogger(middleware.Logger)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.Seed(context.Background(), db, seed.Options{
		Users:              *numUsers,
		Posts:              *numPosts,
		MaxCommentsPerPost: *maxComments,
		VoteChance:         *voteChance,
		Stories:            *numStories,
		Polls:              *numPolls,
		RandSeed:           *randSeed,
		Clean:              *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	middleware.Logger.Info("seed complete", "rand_seed", *randSeed, "summary", *sum)
}
