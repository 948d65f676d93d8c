package providers

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrProviderUnavailable is returned when no upstream provider is wired.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNetworkFailure covers transport errors and non-2xx responses.
	ErrNetworkFailure = errors.New("network failure")
	// ErrMalformedPayload marks a response missing a required section.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrImageResolution marks a single team logo that could not be resolved.
	ErrImageResolution = errors.New("image resolution failure")
)

// NetworkError describes a failed upstream call for one league.
type NetworkError struct {
	League     string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("%s: upstream status %d: %v", e.League, e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: upstream status %d", e.League, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.League, e.Err)
	default:
		return e.League + ": network failure"
	}
}

// Unwrap exposes the transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches ErrNetworkFailure.
func (e *NetworkError) Is(target error) bool { return target == ErrNetworkFailure }

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// Is matches ErrNetworkFailure; a throttled call is still a failed call.
func (e *RateLimitError) Is(target error) bool { return target == ErrNetworkFailure }

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// AsNetworkError attempts to unwrap an error into a NetworkError.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}

// MalformedPayload wraps ErrMalformedPayload with the offending section name.
func MalformedPayload(section string) error {
	return fmt.Errorf("%w: missing %q section", ErrMalformedPayload, section)
}

// ImageResolution wraps ErrImageResolution with the team and cause.
func ImageResolution(teamID string, err error) error {
	return fmt.Errorf("%w: team %s: %v", ErrImageResolution, teamID, err)
}
