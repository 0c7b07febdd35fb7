package inference

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter serializes outbound calls to the inference endpoint, enforcing
// a minimum delay between successive operation *starts*. A slow operation
// does not extend the delay beyond minDelay measured from its start.
//
// This is a single global slot shared by all operations on one client: all
// callers funnel through one queue of waits regardless of model or
// operation type.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter with the given minimum spacing. A
// non-positive delay disables throttling.
func NewRateLimiter(minDelay time.Duration) *RateLimiter {
	if minDelay <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(minDelay), 1)}
}

// Wait blocks until the next slot is available or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Schedule waits for the limiter's next slot and then invokes op, returning
// its result. The wait is context-aware; op itself is not interrupted by the
// limiter.
func Schedule[T any](ctx context.Context, l *RateLimiter, op func() (T, error)) (T, error) {
	if err := l.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return op()
}
