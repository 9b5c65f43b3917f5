package ragflow

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

func testConfig(url string) config.RagFlowConfig {
	return config.RagFlowConfig{
		Enabled:        true,
		BaseURL:        url,
		ApiKey:         "key",
		ChatID:         "chat-1",
		MaxRetries:     2,
		RetryInterval:  time.Millisecond,
		RequestTimeout: time.Second,
	}
}

func TestClient_Ask(t *testing.T) {
	var sessions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chats/chat-1/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req RagFlowRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, "什么是RAG?", req.Question)
		assert.False(t, req.Stream)
		sessions = append(sessions, req.SessionID)

		_, _ = w.Write([]byte(`{"code":0,"data":{"answer":"CITATIONS: 检索增强生成 ","session_id":"s-1"}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())
	answer, err := c.Ask(context.Background(), "什么是RAG?", "oUser1")
	require.NoError(t, err)
	assert.Equal(t, "检索增强生成", answer)

	_, err = c.Ask(context.Background(), "什么是RAG?", "oUser1")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "s-1"}, sessions)

	c.ClearSession("oUser1")
	assert.Equal(t, "", c.session("oUser1"))
}

func TestClient_AskRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"data":{"answer":"ok"}}`))
	}))
	defer srv.Close()

	answer, err := NewClient(testConfig(srv.URL), zap.NewNop()).Ask(context.Background(), "q", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_AskErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":102,"message":"chat not found"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	_, err := NewClient(cfg, zap.NewNop()).Ask(context.Background(), "q", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "102")
}

func TestClient_AskNegativeRetriesDisablesRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = -1
	_, err := NewClient(cfg, zap.NewNop()).Ask(context.Background(), "q", "u")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCleanAnswer(t *testing.T) {
	assert.Equal(t, "答案 ##0$$", CleanAnswer("  CITATIONS:答案 ##0$$\n"))
}
