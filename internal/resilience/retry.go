// Package resilience holds the request-layer retry policy for operations that
// lost an optimistic-concurrency race.
package resilience

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// ConflictPolicy bounds how often a conflicting write is re-attempted.
type ConflictPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// RetryOnConflict runs fn, re-running it while it fails with
// domain.ErrConcurrentModification. fn must re-read the state it acts on.
// Any other error is returned immediately; the last conflict is returned once
// the retries are exhausted.
func RetryOnConflict(ctx context.Context, p ConflictPolicy, fn func(ctx context.Context) error) error {
	if p.MaxRetries == 0 {
		return fn(ctx)
	}

	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.WithJitterPercent(20, retry.NewExponential(base)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if domain.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
