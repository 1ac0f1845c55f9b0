package utils

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig parameterizes Retry. Zero values fall back to the defaults
// used by the step-update-with-media path: 3 attempts, 300ms base delay
// doubling per attempt, plus random jitter up to 300ms.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
}

// DefaultRetry matches the media-bearing step update policy.
var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   300 * time.Millisecond,
	MaxJitter:   300 * time.Millisecond,
}

// Retry runs fn up to cfg.MaxAttempts times, sleeping base*2^attempt plus
// jitter between attempts. Only safe for idempotent operations. Returns
// the last error when all attempts fail, or ctx.Err() when the context is
// cancelled mid-wait.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetry
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.BaseDelay << uint(attempt-1)
			if cfg.MaxJitter > 0 {
				delay += time.Duration(rand.Int63n(int64(cfg.MaxJitter)))
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}
