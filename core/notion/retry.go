package notion

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy configures exponential backoff for transient API errors.
// The zero value is not usable; use DefaultRetryPolicy or fill every field.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration
	// BackoffFactor multiplies the wait after each attempt.
	BackoffFactor float64
	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration
}

// DefaultRetryPolicy matches the remote's documented rate-limit behavior:
// up to five attempts, doubling from one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Second,
		BackoffFactor:  2.0,
		MaxBackoff:     30 * time.Second,
	}
}

// Do runs fn with exponential backoff on retryable errors. Non-retryable
// errors return immediately; after the attempt budget is exhausted the last
// error is surfaced as terminal. Safe for concurrent use: the policy itself
// is immutable.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := p.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * p.BackoffFactor)
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxAttempts, lastErr)
}
