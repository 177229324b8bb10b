package transaction

import (
	"context"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/rule"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// UpdateInput carries partial transaction changes. CategorySet
// distinguishes "leave the category alone" from "set it to null".
type UpdateInput struct {
	CategoryID  *string
	CategorySet bool
	Notes       *string
	Tags        []string
	TagsSet     bool
}

// UpdateOutput is the corrected transaction plus an optional rule
// suggestion derived from the correction.
type UpdateOutput struct {
	Transaction *entity.Transaction
	Suggestion  *entity.RuleSuggestion
}

// UpdateUseCase applies a user correction to a transaction. A category
// change flips the manual override flag, stamps correctedAt, and
// preserves the machine's last answer in autoCategory.
type UpdateUseCase struct {
	txRepo       adapter.TransactionRepository
	categoryRepo adapter.CategoryRepository
	suggestions  *rule.SuggestionEngine
}

// NewUpdateUseCase creates an UpdateUseCase instance.
func NewUpdateUseCase(txRepo adapter.TransactionRepository, categoryRepo adapter.CategoryRepository, suggestions *rule.SuggestionEngine) *UpdateUseCase {
	return &UpdateUseCase{txRepo: txRepo, categoryRepo: categoryRepo, suggestions: suggestions}
}

// Execute validates and applies the changes.
func (uc *UpdateUseCase) Execute(ctx context.Context, ownerID, id string, in UpdateInput) (*UpdateOutput, error) {
	tx, err := uc.txRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Notes != nil && len(*in.Notes) > entity.MaxNotesLength {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeNotesTooLong, "notes exceed the maximum length", domainerror.ErrNotesTooLong)
	}
	if in.TagsSet {
		if len(in.Tags) > entity.MaxTags {
			return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidTags, "too many tags", domainerror.ErrTooManyTags)
		}
		for _, tag := range in.Tags {
			if len(tag) > entity.MaxTagLength {
				return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidTags, "tag exceeds the maximum length", domainerror.ErrTagTooLong)
			}
		}
	}

	var suggestion *entity.RuleSuggestion

	if in.CategorySet {
		if tx.IsSplitParent {
			return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "split parents cannot be recategorized", domainerror.ErrAlreadySplit)
		}
		if in.CategoryID != nil {
			if _, err := uc.categoryRepo.FindByID(ctx, ownerID, *in.CategoryID); err != nil {
				return nil, err
			}
		}

		// Snapshot the machine's answer once, before the first manual edit.
		if tx.AutoCategory == nil && tx.Explainability.Reason != entity.ExplainReasonManual {
			tx.AutoCategory = &entity.AutoCategory{
				CategoryID:     tx.CategoryID,
				Explainability: tx.Explainability,
			}
		}

		now := time.Now().UTC()
		tx.CategoryID = in.CategoryID
		tx.ManualOverride = true
		tx.CorrectedAt = &now
		tx.Explainability = entity.Explainability{
			Reason:     entity.ExplainReasonManual,
			Confidence: 1.0,
			Timestamp:  now,
		}

		if in.CategoryID != nil && uc.suggestions != nil {
			suggestion = uc.suggestions.AfterCorrection(ctx, ownerID, tx.MerchantNormalized, *in.CategoryID)
		}
	}

	if in.Notes != nil {
		tx.Notes = *in.Notes
	}
	if in.TagsSet {
		tx.Tags = in.Tags
	}
	tx.UpdatedAt = time.Now().UTC()

	if err := uc.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return &UpdateOutput{Transaction: tx, Suggestion: suggestion}, nil
}
