package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
)

// CategoryRangeBreakdown is one category's expense total over an
// arbitrary date range.
type CategoryRangeBreakdown struct {
	CategoryID *string
	Amount     int64 // absolute minor units
	Count      int
}

// CategoryRangeUseCase aggregates expenses by category over a range.
type CategoryRangeUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewCategoryRangeUseCase creates a CategoryRangeUseCase instance.
func NewCategoryRangeUseCase(txRepo adapter.TransactionRepository) *CategoryRangeUseCase {
	return &CategoryRangeUseCase{txRepo: txRepo}
}

// Execute aggregates [start, end], largest category first.
func (uc *CategoryRangeUseCase) Execute(ctx context.Context, ownerID string, start, end time.Time) ([]CategoryRangeBreakdown, error) {
	txs, err := uc.txRepo.FindByRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryRangeBreakdown{}
	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		key := categoryKey(tx.CategoryID)
		cb, ok := byCategory[key]
		if !ok {
			cb = &CategoryRangeBreakdown{CategoryID: tx.CategoryID}
			byCategory[key] = cb
		}
		cb.Amount += -tx.Amount
		cb.Count++
	}

	out := make([]CategoryRangeBreakdown, 0, len(byCategory))
	for _, cb := range byCategory {
		out = append(out, *cb)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return categoryKey(out[i].CategoryID) < categoryKey(out[j].CategoryID)
	})
	return out, nil
}

// AccountSummary is one account's activity over a range.
type AccountSummary struct {
	AccountID        string
	TotalIncome      int64
	TotalExpenses    int64 // absolute minor units
	TransactionCount int
}

// AccountSummaryUseCase aggregates activity per account over a range.
type AccountSummaryUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewAccountSummaryUseCase creates an AccountSummaryUseCase instance.
func NewAccountSummaryUseCase(txRepo adapter.TransactionRepository) *AccountSummaryUseCase {
	return &AccountSummaryUseCase{txRepo: txRepo}
}

// Execute aggregates [start, end] per account, ordered by account id.
func (uc *AccountSummaryUseCase) Execute(ctx context.Context, ownerID string, start, end time.Time) ([]AccountSummary, error) {
	txs, err := uc.txRepo.FindByRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	byAccount := map[string]*AccountSummary{}
	for _, tx := range txs {
		s, ok := byAccount[tx.AccountID]
		if !ok {
			s = &AccountSummary{AccountID: tx.AccountID}
			byAccount[tx.AccountID] = s
		}
		s.TransactionCount++
		if tx.Amount > 0 {
			s.TotalIncome += tx.Amount
		} else {
			s.TotalExpenses += -tx.Amount
		}
	}

	out := make([]AccountSummary, 0, len(byAccount))
	for _, s := range byAccount {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}
