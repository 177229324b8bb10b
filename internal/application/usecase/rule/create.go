// Package rule contains the rule management use cases and the
// correction-driven suggestion engine.
package rule

import (
	"context"
	"strings"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// CreateInput carries the fields for a new rule.
type CreateInput struct {
	Name       string
	Priority   *int
	Conditions entity.RuleConditions
	Action     entity.RuleAction
	Source     entity.RuleSource
}

// CreateUseCase creates a categorization rule for the owner.
type CreateUseCase struct {
	ruleRepo     adapter.RuleRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateUseCase creates a CreateUseCase instance.
func NewCreateUseCase(ruleRepo adapter.RuleRepository, categoryRepo adapter.CategoryRepository) *CreateUseCase {
	return &CreateUseCase{ruleRepo: ruleRepo, categoryRepo: categoryRepo}
}

// Execute validates and persists a new rule. The priority defaults by
// source when absent and is clamped into the valid range.
func (uc *CreateUseCase) Execute(ctx context.Context, ownerID string, in CreateInput) (*entity.Rule, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domainerror.NewRuleError(domainerror.ErrCodeRuleNameRequired, "rule name is required", domainerror.ErrRuleNameRequired)
	}
	if !in.Conditions.HasAny() {
		return nil, domainerror.NewRuleError(domainerror.ErrCodeNoConditions, "at least one condition is required", domainerror.ErrNoRuleConditions)
	}
	if in.Conditions.MerchantRegex != nil {
		if err := categorize.ValidatePattern(*in.Conditions.MerchantRegex); err != nil {
			return nil, err
		}
	}
	if _, err := uc.categoryRepo.FindByID(ctx, ownerID, in.Action.CategoryID); err != nil {
		return nil, err
	}

	count, err := uc.ruleRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= entity.MaxRulesPerOwner {
		return nil, domainerror.NewRuleError(domainerror.ErrCodeRuleLimit, "rule limit reached", domainerror.ErrRuleLimitReached)
	}

	source := in.Source
	if source == "" {
		source = entity.RuleSourceUser
	}
	priority := defaultPriority(source)
	if in.Priority != nil {
		priority = *in.Priority
	}

	rule := entity.NewRule(ownerID, in.Name, priority, in.Conditions, in.Action, source)
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func defaultPriority(source entity.RuleSource) int {
	if source == entity.RuleSourceSuggestion {
		return entity.DefaultSuggestionRulePriority
	}
	return entity.DefaultUserRulePriority
}
