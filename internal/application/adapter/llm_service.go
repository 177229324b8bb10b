// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// ClassifyInput is one transaction presented to the classifier.
type ClassifyInput struct {
	TransactionID string
	Description   string
	MerchantRaw   string
	Amount        int64 // minor units, expenses negative
}

// CategoryOption is a category the classifier may choose from.
type CategoryOption struct {
	ID   string
	Name string
}

// ClassifyResult is the classifier's answer for one transaction.
// Provider failures produce {nil, 0, <error string>}; the confidence is
// the orchestrator's only signal.
type ClassifyResult struct {
	CategoryID *string
	Confidence float64
	Reasoning  string
	Model      string
}

// ParsedTransaction is one row extracted from a document.
type ParsedTransaction struct {
	PostedAt    time.Time
	Amount      int64
	Description string
	MerchantRaw string
}

// Receipt is the line-item block extracted from a photographed receipt.
type Receipt struct {
	Merchant  string
	LineItems []entity.ReceiptLineItem
}

// ParseResult is the outcome of parsing one document.
type ParseResult struct {
	Transactions []ParsedTransaction
	// Receipt is set only for image documents.
	Receipt *Receipt
}

// LLMService is the provider-agnostic classification and document
// parsing surface. Classification never returns an error: failures are
// absorbed into a zero-confidence result.
type LLMService interface {
	// ClassifyTransaction asks the provider to place one transaction
	// into one of the given categories.
	ClassifyTransaction(ctx context.Context, in ClassifyInput, categories []CategoryOption) ClassifyResult

	// ClassifyBatch classifies many transactions with bounded
	// concurrency and returns a result per transaction id once all
	// complete. Individual failures never fail the batch.
	ClassifyBatch(ctx context.Context, ins []ClassifyInput, categories []CategoryOption) map[string]ClassifyResult

	// ParseDocument extracts transactions from a document. Image
	// documents additionally carry a receipt block.
	ParseDocument(ctx context.Context, content []byte, kind entity.FileType, mimeType string) (*ParseResult, error)

	// NormalizeMerchant asks the provider for a canonical merchant name
	// when the deterministic normalizer produced too little signal.
	NormalizeMerchant(ctx context.Context, raw string) (string, error)
}
