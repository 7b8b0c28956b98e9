// Command sweep removes expired posts, once or on an interval. It is meant
// for deployments that run the sweeper outside the API process, e.g. as a
// cron job.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusvibe/internal/config"
	"campusvibe/internal/database"
	"campusvibe/internal/middleware"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"
	"campusvibe/internal/sweeper"
)

func main() {
	loop := flag.Bool("loop", false, "Keep sweeping every SWEEP_INTERVAL_SECONDS until interrupted")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)
	observability.SetGlobalLogger(middleware.Logger)

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sw := sweeper.New(repository.NewPostRepository(db), cfg.SweepInterval())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *loop {
		sw.Run(ctx)
		return
	}

	if _, err := sw.Sweep(ctx); err != nil {
		stop()
		log.Fatalf("Sweep failed: %v", err)
	}
}
