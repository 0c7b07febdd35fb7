package inference

import (
	"context"
	"time"
)

// DefaultRetryBaseDelay is the base backoff delay used when none is
// configured.
const DefaultRetryBaseDelay = 250 * time.Millisecond

// RunWithRetry invokes op until it succeeds or maxRetries retries have been
// exhausted (maxRetries+1 attempts total). The delay before the n-th retry
// is baseDelay*n (linear backoff, not exponential). Intermediate failures
// are swallowed; the final failure is returned unchanged so callers can
// inspect the original error.
//
// The backoff sleep honors ctx cancellation; op itself is responsible for
// its own cancellation handling.
func RunWithRetry[T any](ctx context.Context, op func() (T, error), maxRetries int, baseDelay time.Duration) (T, error) {
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	var zero T
	for attempt := 0; ; attempt++ {
		value, err := op()
		if err == nil {
			return value, nil
		}
		if attempt == maxRetries {
			return zero, err
		}

		delay := baseDelay * time.Duration(attempt+1)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}
