package adapters

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// GeminiProvider talks to the Gemini generative API.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider creates a Gemini provider instance.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, domainerror.ErrLLMNotConfigured
	}
	return &GeminiProvider{apiKey: apiKey, model: model}, nil
}

// Model returns the configured model identifier.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Complete sends a text-only prompt.
func (p *GeminiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return p.generate(ctx, system, genai.Text(prompt))
}

// CompleteWithDocument sends a prompt with an attached PDF or image.
func (p *GeminiProvider) CompleteWithDocument(ctx context.Context, system, prompt string, document []byte, mimeType string) (string, error) {
	return p.generate(ctx, system, genai.Blob{MIMEType: mimeType, Data: document}, genai.Text(prompt))
}

func (p *GeminiProvider) generate(ctx context.Context, system string, parts ...genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerror.ErrLLMUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok && text != "" {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
