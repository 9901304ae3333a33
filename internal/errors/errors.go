// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound matches any RemoteError produced by a 404 response.
var ErrNotFound = errors.New("not found")

// RemoteError is returned for every failed call against the hosting API.
// StatusCode is zero when no response was received (transport failure or timeout).
type RemoteError struct {
	Op          string
	Owner       string
	Repo        string
	StatusCode  int
	RateLimited bool
	// RetryAt is when the rate limit window resets, if the API reported it.
	RetryAt time.Time
	Err     error
}

func (e *RemoteError) Error() string {
	target := e.Owner
	if e.Repo != "" {
		target = e.Owner + "/" + e.Repo
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("github %s %s: status %d: %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("github %s %s: %v", e.Op, target, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a RemoteError caused by rate limiting.
func IsRateLimited(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.RateLimited
}

// IsTransport reports whether err is a RemoteError where no HTTP response was received.
func IsTransport(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == 0 && !re.RateLimited
}

// HasResponse reports whether err carries a non-success HTTP response from the API.
func HasResponse(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode != 0
}

// IsRetryable reports whether repeating the call may succeed: rate limiting, transport
// failures and 5xx responses.
func IsRetryable(err error) bool {
	var re *RemoteError
	if !errors.As(err, &re) {
		return false
	}
	return re.RateLimited || re.StatusCode == 0 || re.StatusCode >= http.StatusInternalServerError
}

// ErrUnauthorized is returned when a refresh trigger carries no shared secret.
var ErrUnauthorized = errors.New("authorization required")

// ErrForbidden is returned when a refresh trigger carries the wrong shared secret.
var ErrForbidden = errors.New("invalid authorization")
