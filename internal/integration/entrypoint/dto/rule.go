package dto

import (
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CreateRuleRequest represents the request body for rule creation.
// Conditions and action use the entity wire shapes.
type CreateRuleRequest struct {
	Name       string                `json:"name" binding:"required,min=1,max=100"`
	Priority   *int                  `json:"priority,omitempty"`
	Conditions entity.RuleConditions `json:"conditions" binding:"required"`
	Action     entity.RuleAction     `json:"action" binding:"required"`
}

// UpdateRuleRequest represents the request body for rule update.
type UpdateRuleRequest struct {
	Name       *string                `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Enabled    *bool                  `json:"enabled,omitempty"`
	Priority   *int                   `json:"priority,omitempty"`
	Conditions *entity.RuleConditions `json:"conditions,omitempty"`
	Action     *entity.RuleAction     `json:"action,omitempty"`
}

// ReorderRulesRequest represents the request body for rule reordering.
// The id order is the new priority order, highest first.
type ReorderRulesRequest struct {
	RuleIDs []string `json:"ruleIds" binding:"required,min=1"`
}

// AcceptSuggestionRequest carries the suggested rule template back to
// the server for persistence.
type AcceptSuggestionRequest struct {
	Name       string                `json:"name" binding:"required,min=1,max=100"`
	Priority   int                   `json:"priority,omitempty"`
	Conditions entity.RuleConditions `json:"conditions" binding:"required"`
	Action     entity.RuleAction     `json:"action" binding:"required"`
}

// DismissSuggestionRequest suppresses a suggestion permanently.
type DismissSuggestionRequest struct {
	MerchantNormalized string `json:"merchantNormalized" binding:"required"`
	CategoryID         string `json:"categoryId" binding:"required"`
}

// RuleResponse represents a rule in API responses.
type RuleResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Enabled       bool                  `json:"enabled"`
	Priority      int                   `json:"priority"`
	Conditions    entity.RuleConditions `json:"conditions"`
	Action        entity.RuleAction     `json:"action"`
	Source        string                `json:"source"`
	MatchCount    int64                 `json:"matchCount"`
	LastMatchedAt *time.Time            `json:"lastMatchedAt,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ToRuleResponse converts a Rule entity to a RuleResponse DTO.
func ToRuleResponse(r *entity.Rule) RuleResponse {
	return RuleResponse{
		ID:            r.ID,
		Name:          r.Name,
		Enabled:       r.Enabled,
		Priority:      r.Priority,
		Conditions:    r.Conditions,
		Action:        r.Action,
		Source:        string(r.Source),
		MatchCount:    r.MatchCount,
		LastMatchedAt: r.LastMatchedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToRuleListResponse converts a slice of Rule entities.
func ToRuleListResponse(rules []*entity.Rule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i, r := range rules {
		out[i] = ToRuleResponse(r)
	}
	return out
}
