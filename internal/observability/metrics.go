package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusvibe_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusvibe_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesCast counts vote calls by target kind and state transition.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusvibe_votes_cast_total",
		Help: "Total number of post and comment votes by target and outcome",
	}, []string{"target", "outcome"})

	// VoteConflictRetries counts vote transactions retried after losing a race.
	VoteConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusvibe_vote_conflict_retries_total",
		Help: "Total number of vote transactions retried after a uniqueness conflict",
	})

	// PollVotes counts poll votes by outcome.
	PollVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusvibe_poll_votes_total",
		Help: "Total number of poll votes by outcome",
	}, []string{"outcome"})

	// SweepRuns counts expiry sweeps by result.
	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusvibe_expiry_sweep_runs_total",
		Help: "Total number of expired post sweeps by result",
	}, []string{"result"})

	// PostsExpired counts posts physically removed by the sweeper.
	PostsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusvibe_posts_expired_total",
		Help: "Total number of expired posts deleted",
	})
)

// Vote outcomes.
const (
	VoteOutcomeCreated  = "created"
	VoteOutcomeRemoved  = "removed"
	VoteOutcomeSwitched = "switched"
	VoteOutcomeMissing  = "target_missing"
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
