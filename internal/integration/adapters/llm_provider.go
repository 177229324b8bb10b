// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"strings"
)

// llmProvider is the minimal completion surface the service wrapper
// needs from a backend. Both providers return raw text; all prompt
// construction and response parsing lives in the wrapper.
type llmProvider interface {
	// Model returns the concrete model identifier for audit records.
	Model() string

	// Complete sends a text-only prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// CompleteWithDocument sends a prompt alongside a binary document
	// (PDF or image).
	CompleteWithDocument(ctx context.Context, system, prompt string, document []byte, mimeType string) (string, error)
}

// cleanMarkdownWrapper strips the code fences models like to wrap JSON in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
