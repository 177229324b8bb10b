// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rule priority bounds and defaults.
const (
	MinRulePriority               = 1
	MaxRulePriority               = 1000
	DefaultUserRulePriority       = 500
	DefaultSuggestionRulePriority = 300
	MaxRulesPerOwner              = 100
	MaxRegexPatternLength         = 200
)

// RuleSource identifies how a rule came into existence.
type RuleSource string

const (
	RuleSourceUser       RuleSource = "user"
	RuleSourceSuggestion RuleSource = "suggestion"
	RuleSourceSystem     RuleSource = "system"
)

// RuleConditions is a bag of optional predicates. At least one must be
// set; the numeric and account gates never match on their own.
type RuleConditions struct {
	AccountID           *string `json:"accountId,omitempty"`
	AmountMin           *int64  `json:"amountMin,omitempty"`
	AmountMax           *int64  `json:"amountMax,omitempty"`
	MerchantExact       *string `json:"merchantExact,omitempty"`
	MerchantContains    *string `json:"merchantContains,omitempty"`
	MerchantRegex       *string `json:"merchantRegex,omitempty"`
	DescriptionContains *string `json:"descriptionContains,omitempty"`
}

// HasAny reports whether at least one condition is set.
func (c RuleConditions) HasAny() bool {
	return c.AccountID != nil || c.AmountMin != nil || c.AmountMax != nil ||
		c.MerchantExact != nil || c.MerchantContains != nil ||
		c.MerchantRegex != nil || c.DescriptionContains != nil
}

// HasTextual reports whether a textual condition is set. Rules without
// one can never match.
func (c RuleConditions) HasTextual() bool {
	return c.MerchantExact != nil || c.MerchantContains != nil ||
		c.MerchantRegex != nil || c.DescriptionContains != nil
}

// RuleAction is what a matching rule applies to a transaction.
type RuleAction struct {
	CategoryID string   `json:"categoryId"`
	AddTags    []string `json:"addTags,omitempty"`
}

// Rule is a user-scoped categorization rule evaluated in priority order.
type Rule struct {
	ID            string
	OwnerID       string
	Name          string
	Enabled       bool
	Priority      int
	Conditions    RuleConditions
	Action        RuleAction
	Source        RuleSource
	MatchCount    int64
	LastMatchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRule creates an enabled Rule entity with its priority clamped to
// the valid range.
func NewRule(ownerID, name string, priority int, conditions RuleConditions, action RuleAction, source RuleSource) *Rule {
	now := time.Now().UTC()

	return &Rule{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Enabled:    true,
		Priority:   ClampPriority(priority),
		Conditions: conditions,
		Action:     action,
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ClampPriority forces a priority into [MinRulePriority, MaxRulePriority].
func ClampPriority(p int) int {
	if p < MinRulePriority {
		return MinRulePriority
	}
	if p > MaxRulePriority {
		return MaxRulePriority
	}
	return p
}

// RuleSuggestion is a one-shot rule template generated after a user
// correction. It is not persisted until accepted.
type RuleSuggestion struct {
	ID      string        `json:"id"`
	Message string        `json:"message"`
	Rule    SuggestedRule `json:"rule"`
}

// SuggestedRule is the embedded template a suggestion carries.
type SuggestedRule struct {
	Name       string         `json:"name"`
	Priority   int            `json:"priority"`
	Conditions RuleConditions `json:"conditions"`
	Action     RuleAction     `json:"action"`
}

// DismissedSuggestion suppresses regeneration of a specific suggestion.
type DismissedSuggestion struct {
	ID                 string
	OwnerID            string
	MerchantNormalized string
	CategoryID         string
	DismissedAt        time.Time
}

// NewDismissedSuggestion creates a DismissedSuggestion entity.
func NewDismissedSuggestion(ownerID, merchantNormalized, categoryID string) *DismissedSuggestion {
	return &DismissedSuggestion{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		MerchantNormalized: merchantNormalized,
		CategoryID:         categoryID,
		DismissedAt:        time.Now().UTC(),
	}
}
