package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// Split part count bounds.
const (
	MinSplitParts = 2
	MaxSplitParts = 10
)

// SplitPart is one requested child of a split.
type SplitPart struct {
	Amount     int64
	CategoryID *string
	Notes      string
}

// SplitUseCase divides a transaction into child parts. The parent stays
// in the store as an excluded-from-listings container; the children
// carry the money.
type SplitUseCase struct {
	txRepo       adapter.TransactionRepository
	categoryRepo adapter.CategoryRepository
}

// NewSplitUseCase creates a SplitUseCase instance.
func NewSplitUseCase(txRepo adapter.TransactionRepository, categoryRepo adapter.CategoryRepository) *SplitUseCase {
	return &SplitUseCase{txRepo: txRepo, categoryRepo: categoryRepo}
}

// Execute validates the parts and creates the split atomically. Child
// amounts must sum to the parent amount and share its sign.
func (uc *SplitUseCase) Execute(ctx context.Context, ownerID, id string, parts []SplitPart) ([]*entity.Transaction, error) {
	parent, err := uc.txRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if parent.IsSplitParent {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "transaction is already split", domainerror.ErrAlreadySplit)
	}
	if parent.SplitParentID != nil {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "split children cannot be split again", domainerror.ErrSplitChild)
	}
	if len(parts) < MinSplitParts || len(parts) > MaxSplitParts {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, fmt.Sprintf("split must have between %d and %d parts", MinSplitParts, MaxSplitParts), domainerror.ErrSplitCountOutOfRange)
	}

	var sum int64
	for _, part := range parts {
		if part.Amount == 0 || (part.Amount < 0) != (parent.Amount < 0) {
			return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "split amounts must share the parent's sign", domainerror.ErrSplitSignMismatch)
		}
		sum += part.Amount
		if part.CategoryID != nil {
			if _, err := uc.categoryRepo.FindByID(ctx, ownerID, *part.CategoryID); err != nil {
				return nil, err
			}
		}
	}
	if sum != parent.Amount {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "split amounts must sum to the parent amount", domainerror.ErrSplitAmountMismatch)
	}

	now := time.Now().UTC()
	parentID := parent.ID
	children := make([]*entity.Transaction, len(parts))
	for i, part := range parts {
		child := &entity.Transaction{
			ID:                 uuid.NewString(),
			OwnerID:            parent.OwnerID,
			AccountID:          parent.AccountID,
			ImportID:           parent.ImportID,
			PostedAt:           parent.PostedAt,
			Amount:             part.Amount,
			Description:        fmt.Sprintf("%s (Split %d/%d)", parent.Description, i+1, len(parts)),
			MerchantRaw:        parent.MerchantRaw,
			MerchantNormalized: parent.MerchantNormalized,
			CategoryID:         part.CategoryID,
			ManualOverride:     part.CategoryID != nil,
			Notes:              part.Notes,
			SplitParentID:      &parentID,
			TxKey:              fmt.Sprintf("%s_split_%d", parent.TxKey, i+1),
			Explainability: entity.Explainability{
				Reason:     entity.ExplainReasonSplit,
				Confidence: 1.0,
				Timestamp:  now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		children[i] = child
	}

	if err := uc.txRepo.CreateSplit(ctx, ownerID, parent.ID, children); err != nil {
		return nil, err
	}
	return children, nil
}

// UnsplitUseCase undoes a split, deleting the children and restoring
// the parent to the listings.
type UnsplitUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewUnsplitUseCase creates an UnsplitUseCase instance.
func NewUnsplitUseCase(txRepo adapter.TransactionRepository) *UnsplitUseCase {
	return &UnsplitUseCase{txRepo: txRepo}
}

// Execute removes the split. Returns the number of deleted children.
func (uc *UnsplitUseCase) Execute(ctx context.Context, ownerID, id string) (int, error) {
	parent, err := uc.txRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return 0, err
	}
	if !parent.IsSplitParent {
		return 0, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "transaction is not split", domainerror.ErrNotSplitParent)
	}
	return uc.txRepo.Unsplit(ctx, ownerID, id)
}

// GetSplitsUseCase retrieves the children of a split parent.
type GetSplitsUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewGetSplitsUseCase creates a GetSplitsUseCase instance.
func NewGetSplitsUseCase(txRepo adapter.TransactionRepository) *GetSplitsUseCase {
	return &GetSplitsUseCase{txRepo: txRepo}
}

// Execute lists the split children.
func (uc *GetSplitsUseCase) Execute(ctx context.Context, ownerID, id string) ([]*entity.Transaction, error) {
	parent, err := uc.txRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !parent.IsSplitParent {
		return nil, domainerror.NewTransactionError(domainerror.ErrCodeInvalidSplit, "transaction is not split", domainerror.ErrNotSplitParent)
	}
	return uc.txRepo.FindSplitChildren(ctx, ownerID, id)
}
