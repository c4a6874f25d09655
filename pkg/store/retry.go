package store

import (
	"context"
	stderrors "errors"
	"net"
	"time"
)

// retryableError marks a transient backend failure.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retryable wraps err when it looks transient: a network error or timeout.
// Anything else is returned unchanged.
func retryable(err error) error {
	var ne net.Error
	if err != nil && (stderrors.As(err, &ne) || stderrors.Is(err, context.DeadlineExceeded)) {
		return &retryableError{err: err}
	}
	return err
}

func isRetryable(err error) bool {
	var re *retryableError
	return stderrors.As(err, &re)
}

// retryDelay is the first backoff; it doubles after each attempt.
var retryDelay = 200 * time.Millisecond

// retryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped by retryable trigger retries. The returned error is
// unwrapped so callers see the backend's own error.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return stderrors.Unwrap(lastErr)
}
