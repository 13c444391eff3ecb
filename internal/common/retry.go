package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

var (
	// ErrRateLimit marks a remote call rejected for quota reasons. The next
	// attempt waits for the longest backoff.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError overrides the retry decision for the error it wraps.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that WithRetry returns it without another attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: false}
}

// RetryOptions is an exponential backoff policy. Zero fields take the
// defaults applied by normalize.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64
	// Operation names the call in retry logs.
	Operation string
}

func (o RetryOptions) normalize() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	o.MaxDelay = max(o.MaxDelay, o.InitialDelay)
	if o.Multiplier < 1 {
		o.Multiplier = 2
	}
	o.Jitter = min(max(o.Jitter, 0), 1)
	if o.Operation == "" {
		o.Operation = "operation"
	}
	return o
}

// Delay is the wait after the given failed attempt, counted from 1, before
// jitter is applied.
func (o RetryOptions) Delay(attempt int) time.Duration {
	o = o.normalize()
	d := float64(o.InitialDelay)
	for i := 1; i < attempt && d < float64(o.MaxDelay); i++ {
		d *= o.Multiplier
	}
	return min(time.Duration(d), o.MaxDelay)
}

func (o RetryOptions) jittered(d time.Duration) time.Duration {
	if o.Jitter == 0 {
		return d
	}
	spread := (rand.Float64()*2 - 1) * o.Jitter //nolint:gosec // backoff spread, not security
	return time.Duration(float64(d) * (1 + spread))
}

// WithRetry runs operation until it succeeds, returns an error marked
// non-retryable, or runs out of attempts. Rate limit errors jump straight
// to MaxDelay.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	opts = opts.normalize()

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(err, &retryableErr) && !retryableErr.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%s: %w after %d attempts: %w", opts.Operation, ErrMaxRetries, attempt, err)
		}

		delay := opts.Delay(attempt)
		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}
		delay = opts.jittered(delay)

		slog.Warn("Retrying after failure",
			"operation", opts.Operation,
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
