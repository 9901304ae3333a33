// internal/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError_Classification(t *testing.T) {
	notFound := &RemoteError{Op: "contents", Owner: "o", Repo: "r", StatusCode: http.StatusNotFound, Err: errors.New("404 Not Found")}
	wrapped := fmt.Errorf("fetch overlay: %w", notFound)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, HasResponse(wrapped))
	assert.False(t, IsTransport(wrapped))
	assert.Equal(t, "github contents o/r: status 404: 404 Not Found", notFound.Error())

	transport := &RemoteError{Op: "list", Owner: "o", Err: errors.New("dial tcp: refused")}
	assert.True(t, IsTransport(transport))
	assert.False(t, errors.Is(transport, ErrNotFound))
	assert.Equal(t, "github list o: dial tcp: refused", transport.Error())

	limited := &RemoteError{Op: "list", Owner: "o", StatusCode: http.StatusForbidden, RateLimited: true, Err: errors.New("rate limit")}
	assert.True(t, IsRateLimited(limited))
	assert.False(t, IsTransport(limited))

	assert.False(t, IsRateLimited(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"transport":    {&RemoteError{Err: errors.New("timeout")}, true},
		"rate limited": {&RemoteError{StatusCode: http.StatusForbidden, RateLimited: true, Err: errors.New("x")}, true},
		"server error": {&RemoteError{StatusCode: http.StatusBadGateway, Err: errors.New("x")}, true},
		"unauthorized": {&RemoteError{StatusCode: http.StatusUnauthorized, Err: errors.New("x")}, false},
		"not found":    {&RemoteError{StatusCode: http.StatusNotFound, Err: errors.New("x")}, false},
		"plain error":  {errors.New("x"), false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(fmt.Errorf("wrapped: %w", tc.err)))
		})
	}
}
