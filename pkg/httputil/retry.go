package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (connection resets, 5xx responses) with this type
// so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err (or anything it wraps) is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy controls how often and how patiently a transient failure is retried.
type Policy struct {
	Attempts int           // total tries, values below 1 mean 1
	Delay    time.Duration // wait before the second try, doubled after each
}

// DefaultPolicy tries three times starting with a 250ms pause. Upstream
// calls run under a per-operation timeout, so the backoff is kept short.
var DefaultPolicy = Policy{Attempts: 3, Delay: 250 * time.Millisecond}

// NoRetry runs the operation exactly once.
var NoRetry = Policy{Attempts: 1}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. It returns the last error, or ctx.Err() when the
// context ends during a backoff pause.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(ctx); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
				delay *= 2
			}
		}
	}
	return lastErr
}
