package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/practiz/internal/store"
)

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (blockingProvider) ModelID() string { return "slow" }

func openEventStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegistry_UnknownModel(t *testing.T) {
	r := NewRegistry(StaticOpener(map[string]Provider{}))

	_, err := r.Invoke(context.Background(), "missing", Request{})
	var nf *ErrModelNotFound
	if !errors.As(err, &nf) || nf.Model != "missing" {
		t.Fatalf("expected ErrModelNotFound, got %T (%v)", err, err)
	}
}

func TestRegistry_OpensOncePerModel(t *testing.T) {
	opened := 0
	mock := NewMockProvider(MockResponse{Text: "a"}, MockResponse{Text: "b"})
	r := NewRegistry(func(_ context.Context, model string) (Provider, error) {
		opened++
		return mock, nil
	})

	for _, want := range []string{"a", "b"} {
		resp, err := r.Invoke(context.Background(), "mock", Request{})
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		if resp.Text != want {
			t.Fatalf("text = %q, want %q", resp.Text, want)
		}
	}
	if opened != 1 {
		t.Fatalf("expected provider opened once, got %d", opened)
	}
}

func TestRegistry_BreakerShortCircuits(t *testing.T) {
	failing := NewNamedMockProvider("flaky")
	for i := 0; i < 5; i++ {
		failing.AddResponse(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	}
	r := NewRegistry(
		StaticOpener(map[string]Provider{"flaky": failing}),
		WithBreaker(BreakerConfig{Enabled: true, Failures: 2, Cooldown: time.Minute}),
	)

	for i := 0; i < 2; i++ {
		if _, err := r.Invoke(context.Background(), "flaky", Request{}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if failing.CallCount() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", failing.CallCount())
	}

	_, err := r.Invoke(context.Background(), "flaky", Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable from open breaker, got %T (%v)", err, err)
	}
	if failing.CallCount() != 2 {
		t.Fatalf("open breaker must not reach the backend, got %d calls", failing.CallCount())
	}
}

func TestRegistry_BreakerIsPerModel(t *testing.T) {
	bad := NewNamedMockProvider("bad",
		MockResponse{Err: errors.New("boom")},
	)
	good := NewNamedMockProvider("good", MockResponse{Text: "ok"})
	r := NewRegistry(
		StaticOpener(map[string]Provider{"bad": bad, "good": good}),
		WithBreaker(BreakerConfig{Enabled: true, Failures: 1, Cooldown: time.Minute}),
	)

	_, _ = r.Invoke(context.Background(), "bad", Request{})
	resp, err := r.Invoke(context.Background(), "good", Request{})
	if err != nil {
		t.Fatalf("healthy model affected by another model's breaker: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestRegistry_Timeout(t *testing.T) {
	r := NewRegistry(
		StaticOpener(map[string]Provider{"slow": blockingProvider{}}),
		WithTimeout(20*time.Millisecond),
	)

	start := time.Now()
	_, err := r.Invoke(context.Background(), "slow", Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not applied")
	}
}

func TestRegistry_RecordsEvents(t *testing.T) {
	s := openEventStore(t)
	repo := s.EventRepo()

	mock := NewNamedMockProvider("gpt-4o-mini",
		MockResponse{Text: `{"instruction":"x"}`, Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
	)
	cfg := DefaultConfig()
	r := NewRegistry(
		StaticOpener(map[string]Provider{"gpt-4o-mini": mock}),
		WithEventLog(repo, cfg.Family),
	)

	ctx := WithPurpose(context.Background(), "exercise-gen")
	if _, err := r.Invoke(ctx, "gpt-4o-mini", Request{System: "sys"}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if _, err := r.Invoke(ctx, "gpt-4o-mini", Request{}); err == nil {
		t.Fatal("expected rate limit error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("expected failed event first, got %+v", failed)
	}
	if !ok.Success || ok.Provider != "openai" || ok.Purpose != "exercise-gen" {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if ok.InputTokens != 12 || ok.ResponseBody != `{"instruction":"x"}` {
		t.Errorf("unexpected usage or body: %+v", ok)
	}
}
