// Package sweeper physically removes posts whose TTL has passed.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"campusvibe/internal/clock"
	"campusvibe/internal/observability"
)

// DefaultInterval is how often Run sweeps when Interval is unset.
const DefaultInterval = time.Minute

// Store deletes posts that expired before now and reports how many.
type Store interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper runs expired-post purges on a fixed interval.
type Sweeper struct {
	Interval time.Duration
	Clock    clock.Clock
	Store    Store
}

// New returns a Sweeper on the real clock.
func New(store Store, interval time.Duration) *Sweeper {
	return &Sweeper{Interval: interval, Clock: clock.Real{}, Store: store}
}

// Sweep performs a single purge at the clock's current time.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	span, ctx := observability.NewSpan(ctx, "Sweeper.Sweep")
	defer span.End()

	now := s.clock().Now()
	n, err := s.Store.DeleteExpired(ctx, now)
	if err != nil {
		span.SetError(err)
		observability.SweepRuns.WithLabelValues("error").Inc()
		observability.GlobalLogger.ErrorContext(ctx, "expired post sweep failed",
			slog.Time("cutoff", now),
			slog.String("error", err.Error()),
		)
		return 0, err
	}

	observability.SweepRuns.WithLabelValues("ok").Inc()
	if n > 0 {
		observability.PostsExpired.Add(float64(n))
		observability.GlobalLogger.InfoContext(ctx, "expired posts removed",
			slog.Int64("count", n),
			slog.Time("cutoff", now),
		)
	}
	return n, nil
}

// Run sweeps once immediately and then on every tick until ctx is done.
// Failed sweeps are logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	_, _ = s.Sweep(ctx)

	ticker := s.clock().NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			_, _ = s.Sweep(ctx)
		}
	}
}

func (s *Sweeper) clock() clock.Clock {
	if s.Clock == nil {
		return clock.Real{}
	}
	return s.Clock
}
