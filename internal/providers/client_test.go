package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGeminiComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "what is go", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 1024, req.GenerationConfig.ThinkingConfig.ThinkingBudget)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": "considering...", "thought": true},
						{"text": "Go is "},
						{"text": "a language."},
					},
				},
			}},
		})
	}))
	defer server.Close()

	client := NewGeminiClient(config.ProviderConfig{APIKey: "secret key", BaseURL: server.URL}, testLogger())
	result, err := client.Complete(context.Background(), "what is go", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "considering...", result.Thinking)
	assert.Equal(t, "Go is a language.", result.Content)
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 4096, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{
				"message": map[string]interface{}{"content": "hello there"},
			}},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(config.ProviderConfig{APIKey: "sk-test", BaseURL: server.URL}, testLogger())
	result, err := client.Complete(context.Background(), "hi", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Empty(t, result.Thinking)
	assert.Equal(t, "hello there", result.Content)
}

func TestClaudeComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4096, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "thinking", "thinking": "let me think"},
				{"type": "text", "text": "first "},
				{"type": "text", "text": "second"},
			},
		})
	}))
	defer server.Close()

	client := NewClaudeClient(config.ProviderConfig{APIKey: "sk-ant", BaseURL: server.URL}, testLogger())
	result, err := client.Complete(context.Background(), "hi", "claude-sonnet-4-20250514")
	require.NoError(t, err)
	assert.Equal(t, "let me think", result.Thinking)
	assert.Equal(t, "first second", result.Content)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewOpenAIClient(config.ProviderConfig{APIKey: "sk-test", BaseURL: server.URL}, testLogger())
	_, err := client.Complete(context.Background(), "hi", "gpt-4o")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "OpenAI", upstream.Provider)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "rate limited")
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewGeminiClient(config.ProviderConfig{APIKey: "k", BaseURL: server.URL}, testLogger())
	client.timeout = 20 * time.Millisecond

	_, err := client.Complete(context.Background(), "hi", "gemini-2.5-flash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestConfigured(t *testing.T) {
	client := NewClaudeClient(config.ProviderConfig{}, testLogger())
	assert.False(t, client.Configured())
	assert.Equal(t, "CLAUDE_API_KEY", client.CredentialName())

	client = NewClaudeClient(config.ProviderConfig{APIKey: "sk-ant"}, testLogger())
	assert.True(t, client.Configured())
}
