package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/archmich514/kiog/pkg/config"
)

// AnthropicClient is a minimal client for Anthropic API calls used for
// report synthesis and AI question generation
type AnthropicClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAnthropicClient creates an Anthropic client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewAnthropicClient(cfg *config.AnthropicConfig) *AnthropicClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("CLAUDE_API_KEY")
	}
	if base == "" {
		base = os.Getenv("CLAUDE_API_URL")
		if base == "" {
			base = "https://api.anthropic.com"
		}
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

// MessagesRequest is the shape for messages API requests
type MessagesRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Messages  []map[string]string `json:"messages"`
}

// MessagesResponse is a minimal response shape
type MessagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the prompt to the messages API and returns the text of
// the first content block.
func (a *AnthropicClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := MessagesRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages:  []map[string]string{{"role": "user", "content": prompt}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := a.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}

	var mr MessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", err
	}
	if len(mr.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic")
	}
	return mr.Content[0].Text, nil
}
