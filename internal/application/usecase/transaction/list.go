// Package transaction contains the transaction read and correction use
// cases, including splitting.
package transaction

import (
	"context"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// Listing page size bounds.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ListUseCase returns a filtered, cursor-paginated page of the owner's
// transactions, newest first. Split parents never appear; their
// children do.
type ListUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewListUseCase creates a ListUseCase instance.
func NewListUseCase(txRepo adapter.TransactionRepository) *ListUseCase {
	return &ListUseCase{txRepo: txRepo}
}

// Execute lists transactions. Without an explicit date range the
// listing covers the current calendar month.
func (uc *ListUseCase) Execute(ctx context.Context, ownerID string, filter adapter.TransactionFilter, cursor string, limit int) (*adapter.TransactionPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if filter.StartDate == nil && filter.EndDate == nil {
		start, end := currentMonthRange(time.Now().UTC())
		filter.StartDate = &start
		filter.EndDate = &end
	}

	return uc.txRepo.FindByFilter(ctx, ownerID, filter, cursor, limit)
}

// GetUseCase retrieves one transaction within the owner scope.
type GetUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewGetUseCase creates a GetUseCase instance.
func NewGetUseCase(txRepo adapter.TransactionRepository) *GetUseCase {
	return &GetUseCase{txRepo: txRepo}
}

// Execute retrieves the transaction by id.
func (uc *GetUseCase) Execute(ctx context.Context, ownerID, id string) (*entity.Transaction, error) {
	return uc.txRepo.FindByID(ctx, ownerID, id)
}

// currentMonthRange returns the first and last instant of now's month.
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
