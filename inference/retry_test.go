package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithRetry_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts <= 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}

	got, err := RunWithRetry(context.Background(), op, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 4, attempts)
}

func TestRunWithRetry_ReturnsOriginalErrorAfterExhaustion(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	op := func() (int, error) {
		attempts++
		return 0, boom
	}

	_, err := RunWithRetry(context.Background(), op, 2, time.Millisecond)
	// error identity preserved, not wrapped
	assert.Same(t, boom, err)
	assert.Equal(t, 3, attempts) // maxRetries + 1 attempts
}

func TestRunWithRetry_ZeroRetriesSingleAttempt(t *testing.T) {
	attempts := 0
	op := func() (int, error) {
		attempts++
		return 0, errors.New("nope")
	}

	_, err := RunWithRetry(context.Background(), op, 0, time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRunWithRetry_LinearBackoff(t *testing.T) {
	const base = 10 * time.Millisecond
	attempts := 0
	op := func() (int, error) {
		attempts++
		return 0, errors.New("always")
	}

	start := time.Now()
	_, err := RunWithRetry(context.Background(), op, 2, base)
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	// delays: base*1 + base*2 = 30ms
	assert.GreaterOrEqual(t, elapsed, 3*base-2*time.Millisecond)
}

func TestRunWithRetry_ContextCancelsBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	op := func() (int, error) { return 0, errors.New("fail") }

	start := time.Now()
	_, err := RunWithRetry(ctx, op, 10, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
