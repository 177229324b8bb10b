package rule

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// DismissSuggestionUseCase records a dismissed suggestion so the same
// (merchant, category) pair is never offered again.
type DismissSuggestionUseCase struct {
	dismissedRepo adapter.DismissedSuggestionRepository
}

// NewDismissSuggestionUseCase creates a DismissSuggestionUseCase instance.
func NewDismissSuggestionUseCase(dismissedRepo adapter.DismissedSuggestionRepository) *DismissSuggestionUseCase {
	return &DismissSuggestionUseCase{dismissedRepo: dismissedRepo}
}

// Execute records the dismissal. Dismissing the same pair twice is a no-op.
func (uc *DismissSuggestionUseCase) Execute(ctx context.Context, ownerID, merchantNormalized, categoryID string) error {
	exists, err := uc.dismissedRepo.Exists(ctx, ownerID, merchantNormalized, categoryID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return uc.dismissedRepo.Create(ctx, entity.NewDismissedSuggestion(ownerID, merchantNormalized, categoryID))
}
