package inference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_MinimumSpacingBetweenStarts(t *testing.T) {
	const minDelay = 20 * time.Millisecond
	limiter := NewRateLimiter(minDelay)

	var starts []time.Time
	for i := 0; i < 4; i++ {
		_, err := Schedule(context.Background(), limiter, func() (struct{}, error) {
			starts = append(starts, time.Now())
			return struct{}{}, nil
		})
		require.NoError(t, err)
	}

	require.Len(t, starts, 4)
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		// allow a small scheduling tolerance below the nominal spacing
		assert.GreaterOrEqual(t, gap, minDelay-2*time.Millisecond,
			"operation %d started %v after its predecessor", i, gap)
	}
}

func TestRateLimiter_SlowOperationDoesNotExtendDelay(t *testing.T) {
	const minDelay = 15 * time.Millisecond
	limiter := NewRateLimiter(minDelay)

	// First operation runs longer than the spacing; the second should start
	// immediately after it since the slot opened while it was running.
	_, err := Schedule(context.Background(), limiter, func() (struct{}, error) {
		time.Sleep(3 * minDelay)
		return struct{}{}, nil
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = Schedule(context.Background(), limiter, func() (struct{}, error) {
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), minDelay)
}

func TestRateLimiter_DisabledWhenDelayZero(t *testing.T) {
	limiter := NewRateLimiter(0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		_, err := Schedule(context.Background(), limiter, func() (int, error) { return i, nil })
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	require.NoError(t, limiter.Wait(context.Background())) // first slot is free

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Schedule(ctx, limiter, func() (struct{}, error) {
		t.Fatal("operation must not run after a cancelled wait")
		return struct{}{}, nil
	})
	assert.Error(t, err)
}
