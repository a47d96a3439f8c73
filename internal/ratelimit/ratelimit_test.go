package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/synergy/internal/model"
)

func TestWait_SameProvider_EnforcesMinDelay(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentProvider_NoCrossBlocking(t *testing.T) {
	limiter := NewLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("openai wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "gemini"); err != nil {
		t.Fatalf("gemini wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected gemini wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	limiter := NewLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "openai"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected no waiting with zero delay, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(5 * time.Second) // long delay
	ctx := context.Background()

	// First call to seed the last-call time.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx, "openai")
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingCompleter struct {
	called bool
}

func (c *recordingCompleter) Complete(_ context.Context, _ []model.Message) (string, error) {
	c.called = true
	return "ok", nil
}

func TestRateLimitedCompleter_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	inner := &recordingCompleter{}
	completer := NewRateLimitedCompleter(inner, limiter, "openai")
	ctx := context.Background()

	if _, err := completer.Complete(ctx, nil); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if !inner.called {
		t.Fatal("inner completer was not called on first call")
	}

	inner.called = false

	start := time.Now()
	if _, err := completer.Complete(ctx, nil); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner completer was not called on second call")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second call, got %v", elapsed)
	}
}
