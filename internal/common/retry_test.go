package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Operation: "publish"}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		cause := errors.New("bad request")
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(cause)
		}, opts)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		cause := errors.New("still failing")
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return cause
		}, opts)

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "publish")
		assert.Equal(t, 3, calls)
	})

	t.Run("rate limits still retry", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls == 1 {
				return ErrRateLimit
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WithRetry(ctx, func() error {
			return errors.New("fail")
		}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryOptions_Delay(t *testing.T) {
	opts := RetryOptions{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, opts.Delay(1))
	assert.Equal(t, 2*time.Second, opts.Delay(2))
	assert.Equal(t, 4*time.Second, opts.Delay(3))
	assert.Equal(t, 5*time.Second, opts.Delay(4))
	assert.Equal(t, 100*time.Millisecond, RetryOptions{}.Delay(1))
}

func TestRetryOptions_Jitter(t *testing.T) {
	opts := RetryOptions{Jitter: 0.5}.normalize()
	for range 20 {
		d := opts.jittered(time.Second)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
	assert.Equal(t, time.Second, RetryOptions{}.normalize().jittered(time.Second))
}

func TestPermanent(t *testing.T) {
	require.NoError(t, Permanent(nil))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(errors.New("x")))
}
