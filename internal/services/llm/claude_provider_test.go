package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
)

func newTestClaudeConfig(baseURL string) *common.ClaudeConfig {
	return &common.ClaudeConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "claude-3-haiku-20240307",
		MaxTokens:   800,
		Temperature: 0.2,
		Timeout:     "5s",
	}
}

func TestNewClaudeProvider_RequiresAPIKey(t *testing.T) {
	cfg := newTestClaudeConfig("")
	cfg.APIKey = ""

	_, err := NewClaudeProvider(cfg, arbor.NewLogger())
	assert.Error(t, err)
}

func TestNewClaudeProvider_InvalidTimeout(t *testing.T) {
	cfg := newTestClaudeConfig("")
	cfg.Timeout = "soon"

	_, err := NewClaudeProvider(cfg, arbor.NewLogger())
	assert.Error(t, err)
}

func TestClaudeProvider_GenerateContent(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "{\"summary\":\"ok\"}"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer server.Close()

	p, err := NewClaudeProvider(newTestClaudeConfig(server.URL), arbor.NewLogger())
	require.NoError(t, err)

	resp, err := p.GenerateContent(context.Background(), &ContentRequest{
		SystemInstruction: "be terse",
		Messages:          []Message{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"summary":"ok"}`, resp.Text)
	assert.Equal(t, ProviderClaude, resp.Provider)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(5), resp.Usage.OutputTokens)

	require.NotNil(t, captured)
	assert.Equal(t, "claude-3-haiku-20240307", captured["model"])
	assert.Equal(t, float64(800), captured["max_tokens"])
	assert.Equal(t, 0.2, captured["temperature"])
	assert.NotNil(t, captured["system"])
}

func TestClaudeProvider_ErrorIsExternalServiceError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`)
	}))
	defer server.Close()

	p, err := NewClaudeProvider(newTestClaudeConfig(server.URL), arbor.NewLogger())
	require.NoError(t, err)

	_, err = p.GenerateContent(context.Background(), &ContentRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)

	var ext *ExternalServiceError
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, ProviderClaude, ext.Provider)
	assert.Equal(t, 1, calls, "provider must not retry")
}

func TestClaudeProvider_RejectsEmptyMessages(t *testing.T) {
	p, err := NewClaudeProvider(newTestClaudeConfig("http://127.0.0.1:0"), arbor.NewLogger())
	require.NoError(t, err)

	_, err = p.GenerateContent(context.Background(), &ContentRequest{})
	assert.Error(t, err)
}
