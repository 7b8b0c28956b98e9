// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "campusvibe/docs" // swagger docs
	"campusvibe/internal/cache"
	"campusvibe/internal/clock"
	"campusvibe/internal/config"
	"campusvibe/internal/database"
	"campusvibe/internal/middleware"
	"campusvibe/internal/models"
	"campusvibe/internal/repository"
	"campusvibe/internal/service"
	"campusvibe/internal/sweeper"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	clock          clock.Clock
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	sweeper        *sweeper.Sweeper
	sweepDone      chan struct{}
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	voteService    *service.VoteService
	storyService   *service.StoryService
	pollService    *service.PollService
}

// NewServer connects to the database and Redis and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client disables caching and rate limiting.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	return newServer(cfg, db, redisClient, clock.Real{}), nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clk clock.Clock) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db, cfg.VoteMaxRetries)
	storyRepo := repository.NewStoryRepository(db)
	pollRepo := repository.NewPollRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		clock:          clk,
		sweeper:        &sweeper.Sweeper{Interval: cfg.SweepInterval(), Clock: clk, Store: postRepo},
		userService:    service.NewUserService(userRepo, cfg.DeviceIDPepper, clk),
		postService:    service.NewPostService(postRepo, clk),
		commentService: service.NewCommentService(commentRepo, postRepo, clk),
		voteService:    service.NewVoteService(voteRepo, clk),
		storyService:   service.NewStoryService(storyRepo, clk),
		pollService:    service.NewPollService(pollRepo, clk),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	app.Use(middleware.InitMetrics("campusvibe-api"))

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	middleware.RegisterMetricsRoute(app, "/metrics")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/auth", middleware.RateLimit(s.redis, 20, 10*time.Minute, "auth"), s.Authenticate)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:postId/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	comments := api.Group("/comments")
	comments.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	comments.Delete("/:id", s.DeleteComment)

	voteLimit := s.config.VoteRateLimit
	if voteLimit <= 0 {
		voteLimit = 60
	}
	api.Post("/vote", middleware.RateLimit(s.redis, voteLimit, time.Minute, "vote"), s.Vote)
	api.Get("/votes", s.GetUserVotes)

	stories := api.Group("/stories")
	stories.Get("/", s.GetActiveStories)
	stories.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_story"), s.CreateStory)
	stories.Post("/:id/view", s.ViewStory)
	stories.Delete("/:id", s.DeleteStory)

	polls := api.Group("/polls")
	polls.Get("/", s.GetPolls)
	polls.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_poll"), s.CreatePoll)
	polls.Post("/vote", middleware.RateLimit(s.redis, voteLimit, time.Minute, "poll_vote"), s.VotePoll)
	polls.Delete("/:id", s.DeletePoll)

	users := api.Group("/users")
	users.Get("/:userId/posts", s.GetUserPosts)
	users.Get("/:userId/stories", s.GetUserStories)
	users.Get("/:userId/polls", s.GetUserPolls)
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   s.clock.Now(),
	})
}

// ReadinessCheck handles readiness check requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs caching and rate limiting, so running without it is degraded, not down.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus == "unhealthy" || redisStatus == "unhealthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus == "unavailable":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": s.clock.Now(),
	})
}

// NewApp returns a Fiber app with the middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "CampusVibe API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the expiry sweeper and the HTTP listener.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	s.sweepDone = make(chan struct{})
	go func() {
		defer close(s.sweepDone)
		s.sweeper.Run(s.shutdownCtx)
	}()

	middleware.Logger.Info("server starting", "port", s.config.Port, "sweep_interval", s.sweeper.Interval.String())
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stops the sweeper loop.
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.sweepDone != nil {
		select {
		case <-s.sweepDone:
		case <-ctx.Done():
			middleware.Logger.Warn("sweeper did not stop before shutdown deadline")
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
