// Package retry runs an operation with a bounded attempt budget, a delay
// strategy between attempts, and a pluggable decision on whether a failure
// is worth retrying at all.
package retry

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultAttempts is the total attempt budget when none is configured.
	// An attempt budget of 1 means a single invocation and no retries.
	DefaultAttempts = 1
	// DefaultDelay is the wait between attempts when no strategy is set.
	DefaultDelay = 100 * time.Millisecond
)

// ErrorKind is the discriminant carried by exhaustion errors.
const ErrorKind = "retry_error"

// Error reports an exhausted retry budget. It is only produced when more
// than one attempt was configured; a single-attempt failure surfaces the
// operation's error unwrapped.
type Error struct {
	Attempts int
	LastErr  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *Error) Unwrap() error {
	return e.LastErr
}

// Kind returns the stable discriminant for this failure kind.
func (e *Error) Kind() string { return ErrorKind }

// Options configures one retry run. The zero value is valid and normalizes
// to a single attempt with the default delay.
type Options struct {
	// Attempts is the total attempt budget, minimum 1. It counts all
	// invocations, not re-attempts after the first.
	Attempts int
	// Strategy computes the wait before each re-attempt.
	Strategy Strategy
	// ShouldRetry decides whether a failure is retryable. When it returns
	// false the error is surfaced immediately, unwrapped, regardless of the
	// remaining budget. Defaults to retrying every failure.
	ShouldRetry func(error) bool
}

func (o Options) normalized() Options {
	if o.Attempts < 1 {
		o.Attempts = DefaultAttempts
	}
	if o.Strategy == nil {
		o.Strategy = FixedDelay(DefaultDelay)
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = func(error) bool { return true }
	}
	return o
}

// Do invokes op until it succeeds, the budget is exhausted, or ShouldRetry
// rejects the failure. The backoff wait honors ctx cancellation.
func Do[T any](ctx context.Context, opts Options, op func(context.Context) (T, error)) (T, error) {
	opts = opts.normalized()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !opts.ShouldRetry(err) {
			return zero, err
		}
		if attempt == opts.Attempts {
			break
		}

		if delay := opts.Strategy.SleepDuration(attempt-1, err); delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if opts.Attempts > 1 {
		return zero, &Error{Attempts: opts.Attempts, LastErr: lastErr}
	}
	return zero, lastErr
}
