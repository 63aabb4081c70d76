package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure (network error, 5xx) that
// [Policy.Do] should try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy is an exponential backoff schedule.
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try
	MaxDelay time.Duration // cap on any single wait; zero means no cap
}

// DefaultPolicy tries three times, waiting 1s then 2s.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The attempt number starts at 1. Cancelling ctx stops
// the wait between attempts and returns ctx.Err().
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := 1; i <= attempts; i++ {
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) || i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return lastErr
}

