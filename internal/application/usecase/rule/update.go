package rule

import (
	"context"
	"strings"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// UpdateInput carries partial rule changes. Nil fields are left as is.
type UpdateInput struct {
	Name       *string
	Enabled    *bool
	Priority   *int
	Conditions *entity.RuleConditions
	Action     *entity.RuleAction
}

// UpdateUseCase applies partial changes to an existing rule.
type UpdateUseCase struct {
	ruleRepo     adapter.RuleRepository
	categoryRepo adapter.CategoryRepository
}

// NewUpdateUseCase creates an UpdateUseCase instance.
func NewUpdateUseCase(ruleRepo adapter.RuleRepository, categoryRepo adapter.CategoryRepository) *UpdateUseCase {
	return &UpdateUseCase{ruleRepo: ruleRepo, categoryRepo: categoryRepo}
}

// Execute validates and persists the changes. Replaced conditions go
// through the same gates as creation.
func (uc *UpdateUseCase) Execute(ctx context.Context, ownerID, id string, in UpdateInput) (*entity.Rule, error) {
	rule, err := uc.ruleRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domainerror.NewRuleError(domainerror.ErrCodeRuleNameRequired, "rule name is required", domainerror.ErrRuleNameRequired)
		}
		rule.Name = *in.Name
	}
	if in.Enabled != nil {
		rule.Enabled = *in.Enabled
	}
	if in.Priority != nil {
		rule.Priority = entity.ClampPriority(*in.Priority)
	}
	if in.Conditions != nil {
		if !in.Conditions.HasAny() {
			return nil, domainerror.NewRuleError(domainerror.ErrCodeNoConditions, "at least one condition is required", domainerror.ErrNoRuleConditions)
		}
		if in.Conditions.MerchantRegex != nil {
			if err := categorize.ValidatePattern(*in.Conditions.MerchantRegex); err != nil {
				return nil, err
			}
		}
		rule.Conditions = *in.Conditions
	}
	if in.Action != nil {
		if _, err := uc.categoryRepo.FindByID(ctx, ownerID, in.Action.CategoryID); err != nil {
			return nil, err
		}
		rule.Action = *in.Action
	}

	rule.UpdatedAt = time.Now().UTC()
	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}
