package rule

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// AcceptSuggestionUseCase persists a suggested rule.
type AcceptSuggestionUseCase struct {
	create *CreateUseCase
}

// NewAcceptSuggestionUseCase creates an AcceptSuggestionUseCase instance.
func NewAcceptSuggestionUseCase(create *CreateUseCase) *AcceptSuggestionUseCase {
	return &AcceptSuggestionUseCase{create: create}
}

// Execute creates the rule carried by the suggestion. The rule goes
// through every creation gate, including the per-owner cap.
func (uc *AcceptSuggestionUseCase) Execute(ctx context.Context, ownerID string, suggested entity.SuggestedRule) (*entity.Rule, error) {
	priority := suggested.Priority
	if priority == 0 {
		priority = entity.DefaultSuggestionRulePriority
	}
	return uc.create.Execute(ctx, ownerID, CreateInput{
		Name:       suggested.Name,
		Priority:   &priority,
		Conditions: suggested.Conditions,
		Action:     suggested.Action,
		Source:     entity.RuleSourceSuggestion,
	})
}
