package cache

import (
	"errors"

	"github.com/matzehuels/masonry/pkg/httputil"
)

// ErrNetwork is wrapped into errors from a remote backend that could not be
// reached. Such errors are retryable with [httputil.Retry].
var ErrNetwork = errors.New("cache backend unreachable")

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &httputil.RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *httputil.RetryableError
	return errors.As(err, &re)
}
