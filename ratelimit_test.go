package lingoq

import (
	"context"
	"sync"
	"testing"
	"time"
)

type mockProviderForRateLimit struct {
	mu        sync.Mutex
	callCount int
}

func (m *mockProviderForRateLimit) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	return append([]string(nil), req.Texts...), nil
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	if limiter.Burst() != 1 {
		t.Errorf("Expected default burst 1, got %d", limiter.Burst())
	}
	if float64(limiter.Limit()) != 1.0 {
		t.Errorf("Expected default limit 1/s, got %v", limiter.Limit())
	}
}

func TestNewRateLimiter_Burst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         3,
	})

	// Should be able to acquire burst size immediately
	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	// Fourth should fail
	if limiter.Allow() {
		t.Error("Expected fourth acquire to fail")
	}
}

func TestRateLimitedProvider(t *testing.T) {
	inner := &mockProviderForRateLimit{}

	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         2,
	})

	ctx := context.Background()

	// First two should succeed immediately
	for _, text := range []string{"a", "b"} {
		if _, err := provider.Translate(ctx, TranslateRequest{Texts: []string{text}}); err != nil {
			t.Errorf("Translate(%q) failed: %v", text, err)
		}
	}

	// Third should wait for a token
	start := time.Now()
	_, err := provider.Translate(ctx, TranslateRequest{Texts: []string{"c"}})
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("Third translate failed: %v", err)
	}

	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected rate limit wait, but returned in %v", elapsed)
	}

	if inner.callCount != 3 {
		t.Errorf("Expected 3 inner calls, got %d", inner.callCount)
	}
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	inner := &mockProviderForRateLimit{}

	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 1, // Very slow
		BurstSize:         1,
	})

	// Drain the bucket
	provider.Translate(context.Background(), TranslateRequest{Texts: []string{"a"}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := provider.Translate(ctx, TranslateRequest{Texts: []string{"b"}})
	if err == nil {
		t.Fatal("Expected error when context cancelled")
	}

	// A local budget wait is not an upstream throttle signal
	if IsRateLimited(err) {
		t.Errorf("budget wait error should not classify as rate limited: %v", err)
	}

	if inner.callCount != 1 {
		t.Errorf("Inner provider should not be called after aborted wait, got %d calls", inner.callCount)
	}
}
