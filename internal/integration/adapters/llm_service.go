package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// batchConcurrency bounds simultaneous provider calls in a batch.
const batchConcurrency = 5

// fallbackConfidence replaces confidences the provider reports outside [0, 1].
const fallbackConfidence = 0.5

const classifySystemPrompt = "You are a financial transaction classifier. " +
	"Respond only with JSON in the exact shape requested, no surrounding text."

const parseSystemPrompt = "You are a financial document parser. " +
	"Extract every transaction from the document. " +
	"Respond only with JSON in the exact shape requested, no surrounding text."

// LLMService implements the provider-agnostic classification and
// parsing surface on top of a completion provider. Classification
// absorbs provider failures into zero-confidence results; only the
// parsing path surfaces errors, because an unreadable document must
// fail the import.
type LLMService struct {
	provider llmProvider
}

// NewLLMService creates an LLMService instance around a provider.
func NewLLMService(provider llmProvider) *LLMService {
	return &LLMService{provider: provider}
}

// ClassifyTransaction asks the provider to place one transaction into
// one of the given categories.
func (s *LLMService) ClassifyTransaction(ctx context.Context, in adapter.ClassifyInput, categories []adapter.CategoryOption) adapter.ClassifyResult {
	prompt := buildClassifyPrompt(in, categories)

	raw, err := s.provider.Complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		slog.Warn("Classification request failed", "transactionID", in.TransactionID, "error", err)
		return adapter.ClassifyResult{Reasoning: err.Error(), Model: s.provider.Model()}
	}

	result, err := parseClassifyResponse(raw, categories)
	if err != nil {
		slog.Warn("Classification response unusable", "transactionID", in.TransactionID, "error", err)
		return adapter.ClassifyResult{Reasoning: err.Error(), Model: s.provider.Model()}
	}
	result.Model = s.provider.Model()
	return result
}

// ClassifyBatch classifies many transactions with bounded concurrency.
// Individual failures degrade to zero-confidence results and never fail
// the batch.
func (s *LLMService) ClassifyBatch(ctx context.Context, ins []adapter.ClassifyInput, categories []adapter.CategoryOption) map[string]adapter.ClassifyResult {
	results := make(map[string]adapter.ClassifyResult, len(ins))
	if len(ins) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency)

	for _, in := range ins {
		wg.Add(1)
		go func(in adapter.ClassifyInput) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := s.ClassifyTransaction(ctx, in, categories)
			mu.Lock()
			results[in.TransactionID] = result
			mu.Unlock()
		}(in)
	}
	wg.Wait()

	return results
}

// ParseDocument extracts transactions from a document. CSV text rides
// inside the prompt; PDFs and images go as attachments.
func (s *LLMService) ParseDocument(ctx context.Context, content []byte, kind entity.FileType, mimeType string) (*adapter.ParseResult, error) {
	prompt := buildParsePrompt(kind)

	var raw string
	var err error
	if kind == entity.FileTypeCSV {
		raw, err = s.provider.Complete(ctx, parseSystemPrompt, prompt+"\n\nDOCUMENT:\n"+string(content))
	} else {
		raw, err = s.provider.CompleteWithDocument(ctx, parseSystemPrompt, prompt, content, mimeType)
	}
	if err != nil {
		return nil, err
	}

	return parseDocumentResponse(raw)
}

// NormalizeMerchant asks the provider for a canonical merchant name.
func (s *LLMService) NormalizeMerchant(ctx context.Context, raw string) (string, error) {
	prompt := fmt.Sprintf(`Extract the canonical merchant name from this bank statement descriptor: %q

Respond with JSON: {"merchant": "NAME IN UPPERCASE"}`, raw)

	response, err := s.provider.Complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Merchant string `json:"merchant"`
	}
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(response)), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse merchant response: %w", err)
	}
	return strings.TrimSpace(parsed.Merchant), nil
}

// buildClassifyPrompt renders one transaction and the category menu.
func buildClassifyPrompt(in adapter.ClassifyInput, categories []adapter.CategoryOption) string {
	var sb strings.Builder

	sb.WriteString("Categorize this transaction into exactly one of the categories below, or null when none fits.\n\n")
	sb.WriteString("CATEGORIES:\n")
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("- id: %s, name: %s\n", c.ID, c.Name))
	}

	sb.WriteString("\nTRANSACTION:\n")
	sb.WriteString(fmt.Sprintf("- description: %q\n", in.Description))
	sb.WriteString(fmt.Sprintf("- merchant: %q\n", in.MerchantRaw))
	sb.WriteString(fmt.Sprintf("- amount: %.2f (negative means expense)\n", float64(in.Amount)/100))

	sb.WriteString(`
Respond with JSON:
{"categoryId": "<id from the list or null>", "confidence": 0.0-1.0, "reasoning": "one short sentence"}
`)
	return sb.String()
}

// classifyResponse is the raw JSON shape the classifier returns.
type classifyResponse struct {
	CategoryID *string `json:"categoryId"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// parseClassifyResponse decodes and sanitizes a classifier answer. A
// category outside the offered menu is treated as a refusal; a
// confidence outside [0, 1] falls back to a conservative default.
func parseClassifyResponse(raw string, categories []adapter.CategoryOption) (adapter.ClassifyResult, error) {
	var parsed classifyResponse
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(raw)), &parsed); err != nil {
		return adapter.ClassifyResult{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result := adapter.ClassifyResult{
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		result.Confidence = fallbackConfidence
	}

	if parsed.CategoryID == nil || *parsed.CategoryID == "" || *parsed.CategoryID == "null" {
		result.Confidence = 0
		return result, nil
	}
	for _, c := range categories {
		if c.ID == *parsed.CategoryID {
			result.CategoryID = parsed.CategoryID
			return result, nil
		}
	}

	// Hallucinated category id: refuse rather than invent.
	result.Confidence = 0
	if result.Reasoning == "" {
		result.Reasoning = "classifier returned an unknown category"
	}
	return result, nil
}

// buildParsePrompt renders the extraction instructions per document kind.
func buildParsePrompt(kind entity.FileType) string {
	var sb strings.Builder

	sb.WriteString(`Extract every transaction from this financial document.

Rules:
- dates in YYYY-MM-DD
- amountCents is the signed amount in integer cents: expenses negative, income positive
- skip rows without a parsable date or with a zero amount
`)
	if kind == entity.FileTypeImage {
		sb.WriteString(`- this is a receipt photo: also extract the line items

Respond with JSON:
{"transactions": [{"date": "YYYY-MM-DD", "amountCents": -1234, "description": "..."}],
 "receipt": {"merchant": "...", "lineItems": [{"name": "...", "quantity": 1, "unitPriceCents": 450, "totalPriceCents": 450}]}}
`)
	} else {
		sb.WriteString(`
Respond with JSON:
{"transactions": [{"date": "YYYY-MM-DD", "amountCents": -1234, "description": "..."}]}
`)
	}
	return sb.String()
}

// parsedDocument is the raw JSON shape the parser returns.
type parsedDocument struct {
	Transactions []struct {
		Date        string `json:"date"`
		AmountCents int64  `json:"amountCents"`
		Description string `json:"description"`
	} `json:"transactions"`
	Receipt *struct {
		Merchant  string `json:"merchant"`
		LineItems []struct {
			Name            string  `json:"name"`
			Quantity        float64 `json:"quantity"`
			UnitPriceCents  int64   `json:"unitPriceCents"`
			TotalPriceCents int64   `json:"totalPriceCents"`
		} `json:"lineItems"`
	} `json:"receipt"`
}

// parseDocumentResponse decodes an extraction answer, dropping rows
// with unparsable dates or zero amounts.
func parseDocumentResponse(raw string) (*adapter.ParseResult, error) {
	var parsed parsedDocument
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse document response: %w", err)
	}

	out := &adapter.ParseResult{}
	for _, row := range parsed.Transactions {
		postedAt, err := time.ParseInLocation("2006-01-02", row.Date, time.UTC)
		if err != nil || row.AmountCents == 0 {
			continue
		}
		description := strings.TrimSpace(row.Description)
		out.Transactions = append(out.Transactions, adapter.ParsedTransaction{
			PostedAt:    postedAt,
			Amount:      row.AmountCents,
			Description: description,
			MerchantRaw: description,
		})
	}

	if parsed.Receipt != nil {
		receipt := &adapter.Receipt{Merchant: strings.TrimSpace(parsed.Receipt.Merchant)}
		for _, item := range parsed.Receipt.LineItems {
			receipt.LineItems = append(receipt.LineItems, entity.ReceiptLineItem{
				Name:       item.Name,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPriceCents,
				TotalPrice: item.TotalPriceCents,
			})
		}
		out.Receipt = receipt
	}

	return out, nil
}
