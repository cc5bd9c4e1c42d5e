package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Code is the machine-readable error code from the response body.
	Code string
	// Message is the human-readable error description.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion api error %d: %s", e.Status, e.Message)
}

// Retryable reports whether the error is transient: rate limiting or a
// temporary server failure. Everything else (auth, not-found, rejected
// payload) is terminal.
func (e *APIError) Retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsRetryable classifies any error for the retry loop. Only transient API
// errors qualify; transport-level failures and terminal API errors surface
// immediately.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}
