package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2.0,
		BreakerEnabled: false,
	}
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	executor := NewExecutor(fastPolicy())
	calls := 0

	err := executor.Do(context.Background(), "op",
		func(error) Verdict { return Verdict{Retry: true, Trip: true} },
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnFinalError(t *testing.T) {
	executor := NewExecutor(fastPolicy())
	calls := 0
	final := errors.New("bad request")

	err := executor.Do(context.Background(), "op",
		func(error) Verdict { return Verdict{Retry: false} },
		func(context.Context) error {
			calls++
			return final
		})
	if !errors.Is(err, final) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	executor := NewExecutor(fastPolicy())
	calls := 0

	err := executor.Do(context.Background(), "op",
		func(error) Verdict { return Verdict{Retry: true, Trip: true} },
		func(context.Context) error {
			calls++
			return errors.New("always failing")
		})
	if err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoHonoursContextCancellation(t *testing.T) {
	executor := NewExecutor(fastPolicy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := executor.Do(ctx, "op",
		func(error) Verdict { return Verdict{Retry: true} },
		func(context.Context) error {
			calls++
			return errors.New("should not run")
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no attempts after cancellation, got %d", calls)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 1
	policy.BreakerEnabled = true
	policy.BreakerMinRequests = 2
	policy.BreakerRatio = 0.5
	policy.BreakerOpenFor = time.Minute
	executor := NewExecutor(policy)

	classifier := func(error) Verdict { return Verdict{Trip: true} }
	for i := 0; i < 3; i++ {
		_ = executor.Do(context.Background(), "flaky", classifier, func(context.Context) error {
			return errors.New("down")
		})
	}

	err := executor.Do(context.Background(), "flaky", classifier, func(context.Context) error {
		t.Fatalf("breaker should have blocked the call")
		return nil
	})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
