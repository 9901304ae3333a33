// internal/syncer/retry.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/model"
)

const (
	maxBackoff       = 30 * time.Second
	maxRateLimitWait = 2 * time.Minute
)

// listWithRetry repeats the enumeration step on retryable failures, up to ListRetries extra
// attempts. Rate-limited attempts wait for the reported reset; others back off exponentially.
func (s *Syncer) listWithRetry(ctx context.Context, logger *slog.Logger) ([]model.RemoteRepository, error) {
	for attempt := 0; ; attempt++ {
		remotes, err := s.deps.Remote.ListRepositories(ctx)
		if err == nil {
			return remotes, nil
		}
		if attempt >= s.opts.ListRetries || !custom_errors.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}

		wait := s.retryWait(err, attempt)
		logger.Warn("Listing failed, retrying", "attempt", attempt+1, "wait", wait.String(), "error", err)
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (s *Syncer) retryWait(err error, attempt int) time.Duration {
	var re *custom_errors.RemoteError
	if errors.As(err, &re) && re.RateLimited && !re.RetryAt.IsZero() {
		wait := re.RetryAt.Sub(s.now())
		if wait > maxRateLimitWait {
			return maxRateLimitWait
		}
		if wait > 0 {
			return wait
		}
	}
	return backoff(s.retryBase, attempt)
}

// backoff doubles base per attempt, capped at maxBackoff.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
