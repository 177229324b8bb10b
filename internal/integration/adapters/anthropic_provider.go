package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

const (
	anthropicEndpoint   = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
)

// AnthropicProvider talks to the Anthropic messages API over plain HTTP.
type AnthropicProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	maxTokens  int
}

// NewAnthropicProvider creates an Anthropic provider instance.
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, domainerror.ErrLLMNotConfigured
	}
	return &AnthropicProvider{
		apiKey:    apiKey,
		model:     model,
		maxTokens: 4096,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Model returns the configured model identifier.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// Complete sends a text-only prompt.
func (p *AnthropicProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return p.send(ctx, system, []map[string]any{
		{"type": "text", "text": prompt},
	})
}

// CompleteWithDocument sends a prompt with an attached PDF or image.
// The API takes PDFs as document blocks and images as image blocks,
// both base64 encoded.
func (p *AnthropicProvider) CompleteWithDocument(ctx context.Context, system, prompt string, document []byte, mimeType string) (string, error) {
	blockType := "image"
	if mimeType == "application/pdf" {
		blockType = "document"
	}
	return p.send(ctx, system, []map[string]any{
		{
			"type": blockType,
			"source": map[string]any{
				"type":       "base64",
				"media_type": mimeType,
				"data":       base64.StdEncoding.EncodeToString(document),
			},
		},
		{"type": "text", "text": prompt},
	})
}

func (p *AnthropicProvider) send(ctx context.Context, system string, content []map[string]any) (string, error) {
	requestBody := map[string]any{
		"model":      p.model,
		"max_tokens": p.maxTokens,
		"system":     system,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerror.ErrLLMUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domainerror.ErrLLMUnavailable, resp.StatusCode, string(body))
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
