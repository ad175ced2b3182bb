package openfinance

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the aggregator client id or secret is
// missing. Surfaced to callers as a configuration problem, not a remote one.
var ErrNotConfigured = errors.New("open finance credentials not configured")

// AuthenticationError indicates the aggregator rejected our client
// credentials, or returned a 2xx without any recognizable token field.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("aggregator authentication failed (status %d): %s", e.StatusCode, e.Body)
}

// APIError indicates a non-2xx response from the aggregator on any call
// after authentication. It carries the upstream status and body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator request failed (status %d): %s", e.StatusCode, e.Body)
}
