package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func okReply() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(okReply())
	resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(down(), okReply())
	if _, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(mock.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), okReply())
	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
	if n := len(mock.Calls()); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"max tokens", &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}},
		{"rejected", &ErrRequestRejected{StatusCode: 401, Err: errors.New("bad key")}},
		{"cancelled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, okReply())
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if n := len(mock.Calls()); n != 1 {
				t.Fatalf("expected 1 call, got %d", n)
			}
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	mock := NewMockProvider(bad, bad, okReply())
	if _, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if n := len(mock.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	mock := NewMockProvider(down(), okReply())
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		okReply(),
	)
	r := WithRetry(mock, retryConfig()).(*RetryProvider)

	var waited []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}
	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waited) != 1 || waited[0] != time.Millisecond {
		t.Fatalf("waits = %v", waited)
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 4 * time.Second, Multiplier: 2}}
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second} {
		got := r.backoff(attempt, errors.New("x"))
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if got < lo || got > hi {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, got, lo, hi)
		}
	}
}

func TestTimeout_BoundsCall(t *testing.T) {
	slow := providerFunc(func(ctx context.Context, _ Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := WithTimeout(slow, 5*time.Millisecond).Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWrappers_ModelIDDelegates(t *testing.T) {
	var p Provider = NewMockProvider()
	p = WithTimeout(WithRetry(WithLogging(p, "mock", nil, nil), retryConfig()), time.Second)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

type providerFunc func(ctx context.Context, req Request) (*Response, error)

func (f providerFunc) Generate(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }
func (f providerFunc) ModelID() string                                             { return "func" }
