package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(recorded *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	var slept []time.Duration
	calls := 0

	err := Do(context.Background(), Config{Attempts: 3, Delay: time.Second, Sleep: noSleep(&slept)},
		func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})

	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(slept) != 2 {
		t.Fatalf("sleeps = %d, want 2", len(slept))
	}
	for _, d := range slept {
		if d != time.Second {
			t.Errorf("sleep delay = %v, want 1s", d)
		}
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	var slept []time.Duration
	calls := 0
	wantErr := errors.New("still failing")

	err := Do(context.Background(), Config{Attempts: 3, Delay: time.Second, Sleep: noSleep(&slept)},
		func(ctx context.Context) error {
			calls++
			return wantErr
		})

	if !errors.Is(err, wantErr) {
		t.Fatalf("Do() = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want exactly 3", calls)
	}
	// No sleep after the final attempt.
	if len(slept) != 2 {
		t.Errorf("sleeps = %d, want 2", len(slept))
	}
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, Config{Attempts: 5, Delay: time.Millisecond},
		func(ctx context.Context) error {
			calls++
			cancel()
			return errors.New("fail")
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoValue(t *testing.T) {
	var slept []time.Duration
	calls := 0

	got, err := DoValue(context.Background(), Config{Attempts: 3, Delay: time.Second, Sleep: noSleep(&slept)},
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("not yet")
			}
			return "value", nil
		})

	if err != nil {
		t.Fatalf("DoValue() error = %v", err)
	}
	if got != "value" {
		t.Errorf("DoValue() = %q, want %q", got, "value")
	}
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Config{}, func(ctx context.Context) error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
