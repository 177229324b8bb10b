package dto

import (
	"encoding/json"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// UpdateTransactionRequest represents the request body for a
// transaction correction. Key presence matters: `"categoryId": null`
// clears the category, an absent key leaves it untouched. The same
// applies to tags, so decoding goes through a raw key map.
type UpdateTransactionRequest struct {
	CategoryID  *string
	CategorySet bool
	Notes       *string
	Tags        []string
	TagsSet     bool
}

// UnmarshalJSON decodes the body and records which keys were present.
func (r *UpdateTransactionRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["categoryId"]; ok {
		r.CategorySet = true
		if err := json.Unmarshal(v, &r.CategoryID); err != nil {
			return err
		}
	}
	if v, ok := raw["notes"]; ok {
		if err := json.Unmarshal(v, &r.Notes); err != nil {
			return err
		}
	}
	if v, ok := raw["tags"]; ok {
		r.TagsSet = true
		if err := json.Unmarshal(v, &r.Tags); err != nil {
			return err
		}
	}
	return nil
}

// SplitPartRequest is one child of a split request. Amount is signed
// minor units and must share the parent's sign.
type SplitPartRequest struct {
	Amount     int64   `json:"amount" binding:"required"`
	CategoryID *string `json:"categoryId,omitempty"`
	Notes      string  `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// SplitTransactionRequest represents the request body for a split.
type SplitTransactionRequest struct {
	Splits []SplitPartRequest `json:"splits" binding:"required,min=2,max=10"`
}

// RecategorizeRequest represents the request body for a
// recategorization scan over explicit transaction ids.
type RecategorizeRequest struct {
	TransactionIDs         []string `json:"transactionIds" binding:"required,min=1"`
	IncludeManualOverrides bool     `json:"includeManualOverrides,omitempty"`
}

// RecategorizeResponse summarizes a recategorization scan.
type RecategorizeResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// UnsplitResponse reports how many children a unsplit removed.
type UnsplitResponse struct {
	DeletedChildren int `json:"deletedChildren"`
}

// TransactionResponse represents a transaction in API responses.
// Explainability and autoCategory serialize with the entity wire tags.
type TransactionResponse struct {
	ID                 string                   `json:"id"`
	AccountID          string                   `json:"accountId"`
	ImportID           string                   `json:"importId,omitempty"`
	PostedAt           string                   `json:"postedAt"`
	Amount             int64                    `json:"amount"`
	Description        string                   `json:"description"`
	MerchantRaw        string                   `json:"merchantRaw"`
	MerchantNormalized string                   `json:"merchantNormalized"`
	CategoryID         *string                  `json:"categoryId"`
	AutoCategory       *entity.AutoCategory     `json:"autoCategory,omitempty"`
	ManualOverride     bool                     `json:"manualOverride"`
	Explainability     entity.Explainability    `json:"explainability"`
	Notes              string                   `json:"notes,omitempty"`
	Tags               []string                 `json:"tags,omitempty"`
	CorrectedAt        *time.Time               `json:"correctedAt,omitempty"`
	IsSplitParent      bool                     `json:"isSplitParent"`
	SplitParentID      *string                  `json:"splitParentId,omitempty"`
	ReceiptLineItems   []entity.ReceiptLineItem `json:"receiptLineItems,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

// UpdateTransactionResponse is the corrected transaction plus an
// optional rule suggestion derived from the correction.
type UpdateTransactionResponse struct {
	Transaction    TransactionResponse    `json:"transaction"`
	RuleSuggestion *entity.RuleSuggestion `json:"ruleSuggestion,omitempty"`
}

// ToTransactionResponse converts a Transaction entity to a
// TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                 tx.ID,
		AccountID:          tx.AccountID,
		ImportID:           tx.ImportID,
		PostedAt:           tx.PostedAt.Format("2006-01-02"),
		Amount:             tx.Amount,
		Description:        tx.Description,
		MerchantRaw:        tx.MerchantRaw,
		MerchantNormalized: tx.MerchantNormalized,
		CategoryID:         tx.CategoryID,
		AutoCategory:       tx.AutoCategory,
		ManualOverride:     tx.ManualOverride,
		Explainability:     tx.Explainability,
		Notes:              tx.Notes,
		Tags:               tx.Tags,
		CorrectedAt:        tx.CorrectedAt,
		IsSplitParent:      tx.IsSplitParent,
		SplitParentID:      tx.SplitParentID,
		ReceiptLineItems:   tx.ReceiptLineItems,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
}

// ToTransactionListResponse converts a slice of Transaction entities.
func ToTransactionListResponse(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = ToTransactionResponse(tx)
	}
	return out
}
