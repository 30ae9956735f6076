package retry

import (
	"context"
	"time"
)

// Config parameterizes a bounded retry with a fixed inter-attempt delay.
// One shared utility replaces per-call-site sleep loops.
type Config struct {
	Attempts int
	Delay    time.Duration

	// Sleep is swappable so tests do not wait on real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs fn up to cfg.Attempts times, sleeping cfg.Delay between attempts.
// It stops on the first success or on context cancellation and returns the
// last attempt's error otherwise.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if attempt < cfg.Attempts {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// DoValue is Do for functions that produce a value.
func DoValue[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var value T
	err := Do(ctx, cfg, func(ctx context.Context) error {
		var innerErr error
		value, innerErr = fn(ctx)
		return innerErr
	})
	return value, err
}
