package notion

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fastPolicy keeps test runtime negligible.
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestRetryPolicy_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// TestRetryPolicy_RecoversAfterTransientError tests that a 429 is retried and
// eventual success clears the error.
func TestRetryPolicy_RecoversAfterTransientError(t *testing.T) {
	calls := 0

	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &APIError{Status: http.StatusTooManyRequests}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

// TestRetryPolicy_TerminalErrorNotRetried tests that non-transient API errors
// surface immediately.
func TestRetryPolicy_TerminalErrorNotRetried(t *testing.T) {
	calls := 0
	terminal := &APIError{Status: http.StatusBadRequest, Code: "validation_error"}

	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return terminal
	})

	assert.Equal(t, 1, calls)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

// TestRetryPolicy_ExhaustsAttempts tests the terminal wrap after the budget
// runs out.
func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	calls := 0

	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &APIError{Status: http.StatusServiceUnavailable}
	})

	assert.Equal(t, 3, calls)
	assert.ErrorContains(t, err, "retries exhausted after 3 attempts")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

// TestRetryPolicy_ContextCancellation tests that a cancelled context stops
// the loop between attempts.
func TestRetryPolicy_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := fastPolicy().Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return &APIError{Status: http.StatusTooManyRequests}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &APIError{Status: 429}, true},
		{"bad gateway", &APIError{Status: 502}, true},
		{"service unavailable", &APIError{Status: 503}, true},
		{"gateway timeout", &APIError{Status: 504}, true},
		{"bad request", &APIError{Status: 400}, false},
		{"unauthorized", &APIError{Status: 401}, false},
		{"not found", &APIError{Status: 404}, false},
		{"server error", &APIError{Status: 500}, false},
		{"plain error", errors.New("dial tcp: timeout"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
