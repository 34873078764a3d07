package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !b.Allow() {
			t.Fatalf("call %d should be allowed while closed", i)
		}
		b.Failure()
	}

	if b.State() != BreakerOpen {
		t.Fatalf("state = %s, want OPEN", b.State())
	}
	if b.Allow() {
		t.Error("open breaker must reject immediately")
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker(3, time.Hour)

	b.Allow()
	b.Failure()
	b.Allow()
	b.Failure()
	b.Allow()
	b.Success()
	b.Allow()
	b.Failure()

	if b.State() != BreakerClosed {
		t.Errorf("state = %s, want CLOSED after interleaved success", b.State())
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewCircuitBreaker(1, 20*time.Millisecond)

	b.Allow()
	b.Failure()
	if b.State() != BreakerOpen {
		t.Fatalf("state = %s, want OPEN", b.State())
	}

	time.Sleep(30 * time.Millisecond)

	if !b.Allow() {
		t.Fatal("cooldown elapsed, probe should be admitted")
	}
	if b.State() != BreakerHalfOpen {
		t.Fatalf("state = %s, want HALF_OPEN", b.State())
	}
	// Exactly one probe: concurrent calls are rejected.
	if b.Allow() {
		t.Error("second call during probe must be rejected")
	}

	b.Success()
	if b.State() != BreakerClosed {
		t.Errorf("state = %s, want CLOSED after probe success", b.State())
	}
	if !b.Allow() {
		t.Error("closed breaker should allow calls")
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond)

	b.Allow()
	b.Failure()
	time.Sleep(20 * time.Millisecond)

	if !b.Allow() {
		t.Fatal("probe should be admitted")
	}
	b.Failure()

	if b.State() != BreakerOpen {
		t.Fatalf("state = %s, want OPEN after failed probe", b.State())
	}
	if b.Allow() {
		t.Error("reopened breaker must reject")
	}
}

// stubProvider fails a fixed number of times and then succeeds.
type stubProvider struct {
	failuresLeft int
	calls        int
}

func (s *stubProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	s.calls++
	if s.failuresLeft > 0 {
		s.failuresLeft--
		return "", errors.New("backend down")
	}
	return "ok", nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

func TestResilientClientRejectsWhileOpen(t *testing.T) {
	provider := &stubProvider{failuresLeft: 10}
	client := NewResilientClient(provider, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Generate(ctx, "hi"); err == nil {
			t.Fatal("expected failure")
		}
	}

	callsBefore := provider.calls
	_, err := client.Generate(ctx, "hi")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if provider.calls != callsBefore {
		t.Error("open breaker must not invoke the provider")
	}
}

func TestResilientClientRecoversAfterCooldown(t *testing.T) {
	provider := &stubProvider{failuresLeft: 2}
	client := NewResilientClient(provider, 2, 20*time.Millisecond)
	ctx := context.Background()

	client.Generate(ctx, "a")
	client.Generate(ctx, "b")
	if client.BreakerState() != BreakerOpen {
		t.Fatalf("state = %s, want OPEN", client.BreakerState())
	}

	time.Sleep(30 * time.Millisecond)

	out, err := client.Generate(ctx, "c")
	if err != nil || out != "ok" {
		t.Fatalf("probe = %q, %v", out, err)
	}
	if client.BreakerState() != BreakerClosed {
		t.Errorf("state = %s, want CLOSED", client.BreakerState())
	}
}

func TestResilientClientStats(t *testing.T) {
	provider := &stubProvider{}
	client := NewResilientClient(provider, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := client.Generate(ctx, "hi"); err != nil {
			t.Fatal(err)
		}
	}

	stats := client.Stats()
	if stats.Calls != 10 {
		t.Errorf("Calls = %d, want 10", stats.Calls)
	}
	if stats.Successes != 10 || stats.Failures != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Breaker != BreakerClosed {
		t.Errorf("breaker = %s", stats.Breaker)
	}
}

func TestResilientClientStreamFallback(t *testing.T) {
	provider := &stubProvider{}
	client := NewResilientClient(provider, 5, time.Hour)

	var got string
	out, err := client.ChatStream(context.Background(), []Message{{Role: "user", Content: "hi"}}, func(delta string) error {
		got += delta
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "ok" || got != "ok" {
		t.Errorf("stream fallback = %q / %q", out, got)
	}
}
