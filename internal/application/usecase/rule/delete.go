package rule

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
)

// DeleteUseCase removes a rule. Transactions it categorized keep their
// category and explainability.
type DeleteUseCase struct {
	ruleRepo adapter.RuleRepository
}

// NewDeleteUseCase creates a DeleteUseCase instance.
func NewDeleteUseCase(ruleRepo adapter.RuleRepository) *DeleteUseCase {
	return &DeleteUseCase{ruleRepo: ruleRepo}
}

// Execute deletes the rule by id.
func (uc *DeleteUseCase) Execute(ctx context.Context, ownerID, id string) error {
	if _, err := uc.ruleRepo.FindByID(ctx, ownerID, id); err != nil {
		return err
	}
	return uc.ruleRepo.Delete(ctx, ownerID, id)
}
