package integration

import (
	"errors"
	"fmt"
	"net/http"
)

// Upstream platform errors
var (
	ErrMissingCredentials      = errors.New("integration: upstream credentials not configured")
	ErrUpstreamUnavailable     = errors.New("integration: upstream platform temporarily unavailable")
	ErrUpstreamRateLimited     = errors.New("integration: upstream platform rate limited")
	ErrUpstreamInvalidResponse = errors.New("integration: invalid upstream response")
)

// UpstreamError is a non-success response from the upstream platform API.
// The 429 and 5xx families are retryable; every other 4xx is fatal for the
// run because retrying the same request cannot succeed.
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("integration: upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether a retry may succeed
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewUpstreamError creates an UpstreamError for a non-success status
func NewUpstreamError(statusCode int, message string) *UpstreamError {
	return &UpstreamError{StatusCode: statusCode, Message: message}
}

// IsRetryable reports whether the error is worth retrying with backoff
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Retryable()
	}
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamRateLimited)
}
