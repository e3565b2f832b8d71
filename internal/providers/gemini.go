package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/qscuio/q-cf-bot/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini generateContent endpoint. The API key is
// passed as a query parameter; response parts carry a `thought` flag that
// splits thinking from content.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGeminiClient creates a Gemini provider client.
func NewGeminiClient(cfg config.ProviderConfig, logger *logrus.Logger) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    requestTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *GeminiClient) Name() string           { return "Gemini" }
func (c *GeminiClient) Configured() bool       { return c.apiKey != "" }
func (c *GeminiClient) CredentialName() string { return "GEMINI_API_KEY" }

type geminiPart struct {
	Text    string `json:"text,omitempty"`
	Thought bool   `json:"thought,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	ThinkingConfig geminiThinkingConfig `json:"thinkingConfig"`
}

type geminiThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete issues a single generateContent call for the given model.
func (c *GeminiClient) Complete(ctx context.Context, prompt, model string) (*models.CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ThinkingConfig: geminiThinkingConfig{ThinkingBudget: thinkingBudget},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"provider": "gemini",
		"model":    model,
	}).Debug("Sending AI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr("Gemini", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransportErr("Gemini", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: "Gemini", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	var thinking, content strings.Builder
	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Thought {
				thinking.WriteString(part.Text)
			} else {
				content.WriteString(part.Text)
			}
		}
	}

	return &models.CompletionResult{
		Thinking: thinking.String(),
		Content:  content.String(),
	}, nil
}
