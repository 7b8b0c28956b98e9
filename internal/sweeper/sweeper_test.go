package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campusvibe/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// recordingStore remembers every cutoff it was asked to sweep with.
type recordingStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	calls   chan time.Time
	err     error
	removed int64
}

func newRecordingStore() *recordingStore {
	return &recordingStore{calls: make(chan time.Time, 16)}
}

func (s *recordingStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	s.cutoffs = append(s.cutoffs, now)
	err, n := s.err, s.removed
	s.mu.Unlock()
	s.calls <- now
	return n, err
}

func (s *recordingStore) next(t *testing.T) time.Time {
	t.Helper()
	select {
	case at := <-s.calls:
		return at
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
		return time.Time{}
	}
}

func (s *recordingStore) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case at := <-s.calls:
		t.Fatalf("unexpected sweep at %s", at)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitForTicker(t *testing.T, clk *clock.Fake) {
	t.Helper()
	require.Eventually(t, func() bool { return clk.Tickers() == 1 }, 2*time.Second, time.Millisecond)
}

func TestSweep_UsesClockAsCutoff(t *testing.T) {
	clk := clock.NewFake(start)
	store := newRecordingStore()
	store.removed = 3
	s := &Sweeper{Interval: time.Minute, Clock: clk, Store: store}

	clk.Advance(61 * time.Minute)
	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, start.Add(61*time.Minute), store.next(t))
}

func TestSweep_Error(t *testing.T) {
	store := newRecordingStore()
	store.err = errors.New("db unavailable")
	s := &Sweeper{Clock: clock.NewFake(start), Store: store}

	n, err := s.Sweep(context.Background())
	assert.ErrorIs(t, err, store.err)
	assert.Zero(t, n)
}

func TestRun_SweepsOnStartAndEveryInterval(t *testing.T) {
	clk := clock.NewFake(start)
	store := newRecordingStore()
	s := &Sweeper{Interval: time.Minute, Clock: clk, Store: store}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Equal(t, start, store.next(t), "first sweep runs immediately")
	waitForTicker(t, clk)

	clk.Advance(30 * time.Second)
	store.assertIdle(t)

	clk.Advance(30 * time.Second)
	assert.Equal(t, start.Add(time.Minute), store.next(t))

	clk.Advance(time.Minute)
	assert.Equal(t, start.Add(2*time.Minute), store.next(t))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, clk.Tickers(), "ticker must be stopped")
}

func TestRun_KeepsGoingAfterErrors(t *testing.T) {
	clk := clock.NewFake(start)
	store := newRecordingStore()
	store.err = errors.New("transient")
	s := &Sweeper{Interval: time.Minute, Clock: clk, Store: store}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	store.next(t)
	waitForTicker(t, clk)

	clk.Advance(time.Minute)
	store.next(t)
	clk.Advance(time.Minute)
	store.next(t)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.cutoffs, 3)
}

func TestRun_DefaultInterval(t *testing.T) {
	clk := clock.NewFake(start)
	store := newRecordingStore()
	s := &Sweeper{Clock: clk, Store: store}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	store.next(t)
	waitForTicker(t, clk)

	clk.Advance(DefaultInterval - time.Second)
	store.assertIdle(t)
	clk.Advance(time.Second)
	assert.Equal(t, start.Add(DefaultInterval), store.next(t))
}
