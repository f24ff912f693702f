// Package httputil provides HTTP utilities for fetching remote content.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Only errors wrapped in [RetryableError] are retried. Use [Retryable] to
// classify a response status: 429 and 5xx are transient, everything else is
// final.
package httputil
