package rule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// SuggestionEngine turns a manual correction into at most one rule
// suggestion. Suggestions are ephemeral; only acceptance persists a
// rule, only dismissal persists a suppression.
type SuggestionEngine struct {
	ruleRepo      adapter.RuleRepository
	dismissedRepo adapter.DismissedSuggestionRepository
	categoryRepo  adapter.CategoryRepository
}

// NewSuggestionEngine creates a SuggestionEngine instance.
func NewSuggestionEngine(
	ruleRepo adapter.RuleRepository,
	dismissedRepo adapter.DismissedSuggestionRepository,
	categoryRepo adapter.CategoryRepository,
) *SuggestionEngine {
	return &SuggestionEngine{
		ruleRepo:      ruleRepo,
		dismissedRepo: dismissedRepo,
		categoryRepo:  categoryRepo,
	}
}

// AfterCorrection builds a suggestion for the corrected transaction, or
// nil when the merchant carries too little signal, a rule already
// targets it, or the same suggestion was dismissed before. Engine
// failures suppress the suggestion rather than fail the correction.
func (e *SuggestionEngine) AfterCorrection(ctx context.Context, ownerID, merchantNormalized, categoryID string) *entity.RuleSuggestion {
	if len(merchantNormalized) < 3 {
		return nil
	}

	exists, err := e.ruleRepo.ExistsMerchantRule(ctx, ownerID, merchantNormalized)
	if err != nil {
		slog.Warn("Suggestion rule lookup failed", "merchant", merchantNormalized, "error", err)
		return nil
	}
	if exists {
		return nil
	}

	dismissed, err := e.dismissedRepo.Exists(ctx, ownerID, merchantNormalized, categoryID)
	if err != nil {
		slog.Warn("Suggestion dismissal lookup failed", "merchant", merchantNormalized, "error", err)
		return nil
	}
	if dismissed {
		return nil
	}

	category, err := e.categoryRepo.FindByID(ctx, ownerID, categoryID)
	if err != nil {
		return nil
	}

	merchant := merchantNormalized
	return &entity.RuleSuggestion{
		ID:      uuid.NewString(),
		Message: fmt.Sprintf("Always categorize %s as %s?", merchant, category.Name),
		Rule: entity.SuggestedRule{
			Name:       fmt.Sprintf("Auto: %s", merchant),
			Priority:   entity.DefaultSuggestionRulePriority,
			Conditions: entity.RuleConditions{MerchantContains: &merchant},
			Action:     entity.RuleAction{CategoryID: categoryID},
		},
	}
}
