package github

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoToken is returned when a request-issuing method is called without a
// configured token. No request is attempted.
var ErrNoToken = errors.New("GitHub token not configured")

// InvalidTokenError indicates the API rejected the credential (HTTP 401).
// Callers are expected to clear the stored token when they see this.
type InvalidTokenError struct{}

func (e *InvalidTokenError) Error() string {
	return "invalid GitHub token. Please check your token and try again"
}

// RateLimitedError indicates the API quota is exhausted (HTTP 403 with a zero
// remaining header). ResetAt is derived from the X-RateLimit-Reset header and
// may be zero when the header was absent or malformed.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	if e.ResetAt.IsZero() {
		return "GitHub API rate limit exceeded"
	}
	return fmt.Sprintf("GitHub API rate limit exceeded. Resets at %s", e.ResetAt.Local().Format(time.Kitchen))
}

// ForbiddenError indicates an HTTP 403 unrelated to rate limiting, typically
// a token missing the required scopes.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "access forbidden. Please check your token permissions"
}

// APIError indicates a non-success HTTP status outside the dedicated cases.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %s", e.Status)
}

// NetworkError indicates a transport-level failure before any HTTP status was
// received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error. Please check your internet connection: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
