package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/p5math/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "second"},
	)

	resp1, err := mock.Generate(context.Background(), Request{Prompt: "first"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Prompt: "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "second" {
		t.Fatalf("expected 'second', got %s", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_AlwaysAfterQueue(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "queued"}).Always(MockResponse{Text: "again"})

	for _, want := range []string{"queued", "again", "again"} {
		resp, err := mock.Generate(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Text)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "{}"})

	req := Request{System: "sys", Prompt: "hello"}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.LastCall().System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.LastCall().System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 0}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "problem-gen")
	if p := PurposeFrom(ctx); p != "problem-gen" {
		t.Fatalf("expected 'problem-gen', got %q", p)
	}

	if n := AttemptFrom(ctx); n != 0 {
		t.Fatalf("expected attempt 0 outside Attempter, got %d", n)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantKey string
	}{
		{"gemini without key", Config{Provider: "gemini"}, "GOOGLE_API_KEY"},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"anthropic without key", Config{Provider: "anthropic"}, "ANTHROPIC_API_KEY"},
		{"openai without key", Config{Provider: "openai"}, "OPENAI_API_KEY"},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, ""},
		{"openrouter without key", Config{Provider: "openrouter"}, "OPENROUTER_API_KEY"},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"unknown provider", Config{Provider: "unknown"}, "LLM_PROVIDER"},
		{"negative attempts", Config{Provider: "mock", MaxAttempts: -1}, "LLM_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantKey == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ErrConfig
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxAttempts)
}

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 20*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail), "got %T", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mock := NewMockProvider()
	assert.Same(t, mock, WithTimeout(mock, 0))
}

type memEventRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return m.err
}

func (m *memEventRepo) RecentLLMRequests(context.Context, int) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (m *memEventRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsage, error) { return nil, nil }

func (m *memEventRepo) LLMUsageByModel(context.Context) ([]store.LLMUsage, error) { return nil, nil }

func TestWithLogging_RecordsEvents(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(
		MockResponse{Text: "hi", Usage: Usage{InputTokens: 3, OutputTokens: 1}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithLogging(mock, "mock", repo)
	ctx := withAttempt(WithPurpose(context.Background(), "feedback"), 2)

	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	assert.Equal(t, "feedback", repo.events[0].Purpose)
	assert.Equal(t, 2, repo.events[0].Attempt)
	assert.Equal(t, 3, repo.events[0].InputTokens)
	assert.True(t, repo.events[0].Success)
	assert.False(t, repo.events[1].Success)
	assert.NotEmpty(t, repo.events[1].ErrorMessage)
}

func TestWithLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &memEventRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), "mock", repo)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "gemini"}, nil)
	var cfgErr *ErrConfig
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	require.NotNil(t, c)
	assert.InDelta(t, 0.3+2.5, c.Cost(1_000_000, 1_000_000), 1e-9)

	require.NotNil(t, LookupCost("google/gemini-2.5-flash"))
	assert.Nil(t, LookupCost("mock"))
}
