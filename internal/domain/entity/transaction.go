// Package entity defines the core business entities for the domain layer.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Field limits for user-editable transaction fields.
const (
	MaxNotesLength = 500
	MaxTags        = 10
	MaxTagLength   = 50
)

// ExplainReason identifies why a transaction carries its current category.
type ExplainReason string

const (
	ExplainReasonRuleMatch ExplainReason = "rule_match"
	ExplainReasonLLM       ExplainReason = "llm"
	ExplainReasonManual    ExplainReason = "manual"
	ExplainReasonNoMatch   ExplainReason = "no_match"
	ExplainReasonDefault   ExplainReason = "default"
	ExplainReasonSplit     ExplainReason = "split"
)

// MatchType identifies which textual rule condition produced a match.
type MatchType string

const (
	MatchTypeExact       MatchType = "exact"
	MatchTypeContains    MatchType = "contains"
	MatchTypeRegex       MatchType = "regex"
	MatchTypeDescription MatchType = "description"
)

// Explainability is the audit payload recording why a category was chosen.
// A transaction always carries exactly one current Explainability; the
// last non-manual one is preserved inside AutoCategory.
type Explainability struct {
	Reason         ExplainReason `json:"reason"`
	RuleID         *string       `json:"ruleId,omitempty"`
	RuleName       *string       `json:"ruleName,omitempty"`
	MatchType      *MatchType    `json:"matchType,omitempty"`
	MatchedValue   *string       `json:"matchedValue,omitempty"`
	MatchedPattern *string       `json:"matchedPattern,omitempty"`
	Confidence     float64       `json:"confidence"`
	Timestamp      time.Time     `json:"timestamp"`
	LLMModel       *string       `json:"llmModel,omitempty"`
	LLMReasoning   *string       `json:"llmReasoning,omitempty"`
}

// AutoCategory preserves the last non-manual categorization result so a
// manual override never loses the machine's answer.
type AutoCategory struct {
	CategoryID     *string        `json:"categoryId"`
	Explainability Explainability `json:"explainability"`
}

// ReceiptLineItem is a single line extracted from a photographed receipt.
// Prices are minor units.
type ReceiptLineItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  int64   `json:"unitPrice"`
	TotalPrice int64   `json:"totalPrice"`
	Category   *string `json:"category,omitempty"`
}

// Transaction represents a single monetary movement. Amounts are signed
// integer minor units: expenses negative, income positive.
type Transaction struct {
	ID                 string
	OwnerID            string
	AccountID          string
	ImportID           string
	PostedAt           time.Time
	Amount             int64
	Description        string
	MerchantRaw        string
	MerchantNormalized string
	CategoryID         *string
	AutoCategory       *AutoCategory
	ManualOverride     bool
	Explainability     Explainability
	Notes              string
	Tags               []string
	CorrectedAt        *time.Time
	IsSplitParent      bool
	SplitParentID      *string
	ReceiptLineItems   []ReceiptLineItem
	TxKey              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewTransaction creates a Transaction entity with its content hash set.
func NewTransaction(ownerID, accountID, importID string, postedAt time.Time, amount int64, description, merchantRaw string) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		AccountID:   accountID,
		ImportID:    importID,
		PostedAt:    postedAt,
		Amount:      amount,
		Description: description,
		MerchantRaw: merchantRaw,
		TxKey:       ComputeTxKey(accountID, postedAt, amount, description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ComputeTxKey derives the deduplication hash for a transaction. The key
// is stable over (accountID, posted date, amount, description) and is
// unique within an owner.
func ComputeTxKey(accountID string, postedAt time.Time, amount int64, description string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", accountID, postedAt.UTC().Format("2006-01-02"), amount, description)))
	return hex.EncodeToString(sum[:])
}
