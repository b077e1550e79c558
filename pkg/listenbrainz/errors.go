package listenbrainz

import (
	"errors"
	"fmt"
	"time"
)

// Predefined errors for common cases.
var (
	// ErrEmptyToken is returned when a call is made with an empty token.
	ErrEmptyToken = errors.New("listenbrainz: token must not be empty")

	// ErrInvalidToken is returned when the API rejects the supplied token,
	// either via a 401 status or an explicit valid=false response.
	ErrInvalidToken = errors.New("listenbrainz: invalid token")

	// ErrMalformedResponse is returned when a response cannot be decoded
	// or lacks a field the API contract requires. A missing field is never
	// coerced to a zero value; doing so would make failures ambiguous.
	ErrMalformedResponse = errors.New("listenbrainz: malformed response")
)

// RateLimitError is returned on a 429 response. RetryAfter holds the
// wait the API asked for, decoded from the X-RateLimit-Reset-In header.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error returns the error message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("listenbrainz: rate limited, retry in %s", e.RetryAfter)
}

// ConnectionError wraps a transport-level failure (DNS, TLS, timeout,
// connection reset). The underlying error is kept for diagnostics.
type ConnectionError struct {
	Err error
}

// Error returns the error message.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("listenbrainz: connection error: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any non-2xx status the client does not
// classify more specifically. The raw code is surfaced for diagnosis.
type StatusError struct {
	Code int
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("listenbrainz: unexpected status %d", e.Code)
}
