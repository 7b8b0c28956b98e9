package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusvibe/internal/observability"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// errWriteConflict marks a transaction that lost a race with a concurrent
// writer on the same row and should be replayed from the start.
var errWriteConflict = errors.New("concurrent write conflict")

// DefaultMaxRetries bounds replays of a conflicting vote transaction.
const DefaultMaxRetries = 5

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isRetryable(err error) bool {
	return errors.Is(err, errWriteConflict) || isUniqueViolation(err) || isSerializationFailure(err)
}

// withConflictRetry runs op until it succeeds, fails with a non-conflict
// error, or maxTries is exhausted. Backoff is short because conflicts only
// happen between requests of the same user on the same row.
func withConflictRetry[T any](ctx context.Context, logger *observability.RepoLogger, operation string, maxTries uint, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		if attempt > 1 {
			observability.VoteConflictRetries.Inc()
		}
		v, err := op()
		if err == nil {
			return v, nil
		}
		if !isRetryable(err) {
			return v, backoff.Permanent(err)
		}
		logger.LogRetry(ctx, operation, err)
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxTries))
}
