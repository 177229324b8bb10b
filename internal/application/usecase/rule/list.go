package rule

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// ListUseCase returns the owner's rules, priority descending.
type ListUseCase struct {
	ruleRepo adapter.RuleRepository
}

// NewListUseCase creates a ListUseCase instance.
func NewListUseCase(ruleRepo adapter.RuleRepository) *ListUseCase {
	return &ListUseCase{ruleRepo: ruleRepo}
}

// Execute lists all rules for the owner.
func (uc *ListUseCase) Execute(ctx context.Context, ownerID string) ([]*entity.Rule, error) {
	return uc.ruleRepo.FindByOwner(ctx, ownerID)
}

// GetUseCase retrieves one rule within the owner scope.
type GetUseCase struct {
	ruleRepo adapter.RuleRepository
}

// NewGetUseCase creates a GetUseCase instance.
func NewGetUseCase(ruleRepo adapter.RuleRepository) *GetUseCase {
	return &GetUseCase{ruleRepo: ruleRepo}
}

// Execute retrieves the rule by id.
func (uc *GetUseCase) Execute(ctx context.Context, ownerID, id string) (*entity.Rule, error) {
	return uc.ruleRepo.FindByID(ctx, ownerID, id)
}
