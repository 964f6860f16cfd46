package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/policedraft/internal/prompt"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func newTestClient(url string, policy Policy) *Client {
	params := DefaultParams()
	params.Model = "test-model"
	return NewClient(Options{
		APIKey:  "test-key",
		BaseURL: url,
		Params:  params,
		Policy:  policy,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])
		assert.InDelta(t, 0.1, body["temperature"], 1e-6)
		assert.InDelta(t, 0.8, body["top_p"], 1e-6)
		assert.InDelta(t, 0.3, body["frequency_penalty"], 1e-6)
		assert.EqualValues(t, 1200, body["max_tokens"])

		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "hola", msgs[1].(map[string]any)["content"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("  <p>— Hola.</p>\n"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, PolicyFallback)
	got, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "hola"))

	require.NoError(t, err)
	assert.Equal(t, "<p>— Hola.</p>", got.Text)
	assert.Equal(t, "test-model", got.Model)
	assert.False(t, got.Offline)
}

func TestComplete_FullEndpointURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	c := newTestClient(server.URL+"/openai/v1/chat/completions/", PolicyStrict)
	got, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Rate limit reached",
				"type":    "tokens",
				"code":    "rate_limit_exceeded",
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, PolicyFallback)
	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusTooManyRequests, uerr.StatusCode)
	assert.Equal(t, "Rate limit reached", uerr.Message)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, PolicyFallback)
	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusBadGateway, uerr.StatusCode)
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer server.Close()

	c := newTestClient(server.URL, PolicyFallback)
	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "empty choices", uerr.Message)
}

func TestComplete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(url, PolicyFallback)
	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 0, uerr.StatusCode)
	assert.NotNil(t, uerr.Unwrap())
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 200 * time.Millisecond,
	}, zerolog.Nop())

	start := time.Now()
	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))
	elapsed := time.Since(start)

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 0, uerr.StatusCode)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestComplete_OfflineFallback(t *testing.T) {
	c := NewClient(Options{Policy: PolicyFallback}, zerolog.Nop())

	got, err := c.Complete(context.Background(), prompt.Assemble("sys", prompt.Examples, "  texto bruto \n"))

	require.NoError(t, err)
	assert.True(t, c.Offline())
	assert.True(t, got.Offline)
	assert.Equal(t, "texto bruto", got.Text)
}

func TestComplete_StrictMissingKey(t *testing.T) {
	c := NewClient(Options{Policy: PolicyStrict}, zerolog.Nop())

	_, err := c.Complete(context.Background(), prompt.Assemble("sys", nil, "x"))

	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "LLM_API_KEY", cerr.Setting)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{}, zerolog.Nop())

	assert.Equal(t, PolicyFallback, c.Policy())
	assert.Equal(t, DefaultModel, c.Model())
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyFallback, "fallback": PolicyFallback, " STRICT ": PolicyStrict} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("lenient")
	assert.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, baseURL(""))
	assert.Equal(t, "https://api.x.ai/v1", baseURL("https://api.x.ai/v1/chat/completions"))
	assert.Equal(t, "https://api.x.ai/v1", baseURL("https://api.x.ai/v1/"))
}
