package rule

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// ReorderUseCase rewrites rule priorities from an explicit ordering.
type ReorderUseCase struct {
	ruleRepo adapter.RuleRepository
}

// NewReorderUseCase creates a ReorderUseCase instance.
func NewReorderUseCase(ruleRepo adapter.RuleRepository) *ReorderUseCase {
	return &ReorderUseCase{ruleRepo: ruleRepo}
}

// Execute assigns descending priorities to the given ids, first id
// highest. Ids must all belong to the owner; ids absent from the list
// keep their current priority.
func (uc *ReorderUseCase) Execute(ctx context.Context, ownerID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	owned, err := uc.ruleRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(owned))
	for _, r := range owned {
		known[r.ID] = true
	}

	assignments := make([]adapter.RulePriorityAssignment, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		if !known[id] {
			return domainerror.ErrRuleNotFound
		}
		assignments = append(assignments, adapter.RulePriorityAssignment{
			ID:       id,
			Priority: entity.ClampPriority(entity.MaxRulePriority - i),
		})
	}

	return uc.ruleRepo.UpdatePriorities(ctx, ownerID, assignments)
}
