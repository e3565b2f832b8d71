package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/qscuio/q-cf-bot/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion     = "2023-06-01"
)

// ClaudeClient calls the Anthropic messages endpoint. Responses are typed
// content blocks; "thinking" blocks and "text" blocks accumulate into the
// two halves of the result.
type ClaudeClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClaudeClient creates a Claude provider client.
func NewClaudeClient(cfg config.ProviderConfig, logger *logrus.Logger) *ClaudeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}
	return &ClaudeClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    requestTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *ClaudeClient) Name() string           { return "Claude" }
func (c *ClaudeClient) Configured() bool       { return c.apiKey != "" }
func (c *ClaudeClient) CredentialName() string { return "CLAUDE_API_KEY" }

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		Thinking string `json:"thinking"`
	} `json:"content"`
}

// Complete issues a single messages call for the given model.
func (c *ClaudeClient) Complete(ctx context.Context, prompt, model string) (*models.CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := claudeRequest{
		Model:     model,
		MaxTokens: maxOutputTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	c.logger.WithFields(logrus.Fields{
		"provider": "claude",
		"model":    model,
	}).Debug("Sending AI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr("Claude", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransportErr("Claude", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: "Claude", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result claudeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	var thinking, content strings.Builder
	for _, block := range result.Content {
		switch block.Type {
		case "thinking":
			thinking.WriteString(block.Thinking)
		case "text":
			content.WriteString(block.Text)
		}
	}

	return &models.CompletionResult{
		Thinking: thinking.String(),
		Content:  content.String(),
	}, nil
}
