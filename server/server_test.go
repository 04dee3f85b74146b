package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brayanMuniz/daijoubu/internal/chat"
	"github.com/brayanMuniz/daijoubu/internal/config"
	"github.com/brayanMuniz/daijoubu/internal/llm"
	"github.com/brayanMuniz/daijoubu/internal/memory"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (p *scriptedProvider) Complete(ctx context.Context, msgs []llm.Message) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.text, p.err
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type countingStore struct {
	memory.Store
	mu   sync.Mutex
	gets int
}

func (s *countingStore) Get(userID string) map[string]string {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.Store.Get(userID)
}

func testConfig() *config.Config {
	return &config.Config{
		Provider:         config.ProviderGroq,
		GroqModel:        "llama-3.3-70b-versatile",
		MaxMessageLength: 2000,
		TimeoutSeconds:   1,
		Addr:             ":0",
	}
}

func newTestServer(provider llm.Provider, store memory.Store) *Server {
	cfg := testConfig()
	svc := chat.NewService(provider, store, cfg.Timeout(), zap.NewNop())
	return NewServerWith(svc, cfg, zap.NewNop())
}

func postChat(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestChatRoundTrip(t *testing.T) {
	provider := &scriptedProvider{text: `{"technical":"t","realistic":"r","emotional":"e"}`}
	s := newTestServer(provider, memory.NewInMemory())

	rec := postChat(s, `{"user_id":"u1","message":"I'm feeling low"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, &chat.Reply{Technical: "t", Realistic: "r", Emotional: "e"}, body.Reply)
	assert.Equal(t, 1, provider.callCount())
}

func TestChatReplyAlwaysHasAllKeys(t *testing.T) {
	provider := &scriptedProvider{text: "plain text answer"}
	s := newTestServer(provider, memory.NewInMemory())

	rec := postChat(s, `{"user_id":"u1","message":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	reply := body["reply"]
	for _, key := range []string{"technical", "realistic", "emotional"} {
		_, ok := reply[key]
		assert.True(t, ok, "key %q must always be present", key)
	}
}

func TestChatMissingUserID(t *testing.T) {
	provider := &scriptedProvider{}
	s := newTestServer(provider, memory.NewInMemory())

	rec := postChat(s, `{"message":"hello"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, provider.callCount())
}

func TestChatMessageTooLong(t *testing.T) {
	provider := &scriptedProvider{}
	store := &countingStore{Store: memory.NewInMemory()}
	s := newTestServer(provider, store)

	long := strings.Repeat("a", 2001)
	rec := postChat(s, `{"user_id":"u1","message":"`+long+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message too long")
	assert.Equal(t, 0, provider.callCount(), "rejected before any upstream call")
	assert.Equal(t, 0, store.gets, "rejected before any memory read")
}

func TestChatCrisisReturnsSafeReply(t *testing.T) {
	provider := &scriptedProvider{text: `{"technical":"t","realistic":"r","emotional":"e"}`}
	s := newTestServer(provider, memory.NewInMemory())

	rec := postChat(s, `{"user_id":"u1","message":"I want to end my life"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Reply.Emotional, "988")
	assert.Equal(t, 0, provider.callCount(), "crisis must never reach the completion API")
}

func TestChatUpstreamErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		errMsg     string
		wantStatus int
		wantDetail string
	}{
		{"rate limited", "upstream said 429", http.StatusTooManyRequests, "rate limit"},
		{"quota", "quota exceeded", http.StatusPaymentRequired, "quota"},
		{"decommissioned", "model_decommissioned", http.StatusBadRequest, "decommissioned"},
		{"other", "connection refused", http.StatusInternalServerError, "Completion API error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{err: errors.New(tt.errMsg)}
			s := newTestServer(provider, memory.NewInMemory())

			rec := postChat(s, `{"user_id":"u1","message":"hello"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
		})
	}
}

func TestChatNoProviderConfigured(t *testing.T) {
	s := newTestServer(nil, memory.NewInMemory())

	rec := postChat(s, `{"user_id":"u1","message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "API key not configured")
}

func TestChatTimeoutReturnsDegradedReply(t *testing.T) {
	slow := providerFunc(func(ctx context.Context, _ []llm.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := chat.NewService(slow, memory.NewInMemory(), 50*time.Millisecond, zap.NewNop())
	s := NewServerWith(svc, testConfig(), zap.NewNop())

	start := time.Now()
	rec := postChat(s, `{"user_id":"u1","message":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, rec.Body.String(), "taking too long")
}

type providerFunc func(ctx context.Context, msgs []llm.Message) (string, error)

func (f providerFunc) Complete(ctx context.Context, msgs []llm.Message) (string, error) {
	return f(ctx, msgs)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&scriptedProvider{}, memory.NewInMemory())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
