package retry

import (
	"math"
	"time"
)

// Strategy encapsulates the delay between retry attempts.
type Strategy interface {
	// SleepDuration returns how long to wait before the next retry attempt.
	// The attempt index starts at 0, incrementing after each failure.
	SleepDuration(attempt int, err error) time.Duration
}

// FixedDelay waits the same duration between every attempt.
type FixedDelay time.Duration

// SleepDuration returns the fixed duration regardless of attempt or error.
func (d FixedDelay) SleepDuration(_ int, _ error) time.Duration {
	return time.Duration(d)
}

// DelayFunc adapts a function into a Strategy, letting the wait depend on
// the attempt index and the error that caused it.
type DelayFunc func(attempt int, err error) time.Duration

func (f DelayFunc) SleepDuration(attempt int, err error) time.Duration {
	return f(attempt, err)
}

// ExponentialBackoff implements a backoff strategy.
// Usage example:
//
//	retry.Options{
//	    Attempts: 5,
//	    Strategy: retry.ExponentialBackoff{
//	        Base:   100 * time.Millisecond,
//	        Factor: 2,
//	        Max:    5 * time.Second,
//	    },
//	}
type ExponentialBackoff struct {
	// Base is the starting delay (e.g., 100ms)
	Base time.Duration
	// Factor is multiplied each iteration (e.g., 2 => 100ms, 200ms, 400ms, ...)
	Factor float64
	// Max is the maximum delay allowed (caps the exponential growth)
	Max time.Duration
}

// SleepDuration implements an exponential backoff with a cap at Max.
func (e ExponentialBackoff) SleepDuration(attempt int, _ error) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(e.Base) * math.Pow(e.Factor, float64(attempt))
	if time.Duration(delay) > e.Max && e.Max > 0 {
		return e.Max
	}
	return time.Duration(delay)
}
