// Package analytics contains the read-side aggregation use cases.
// Every figure is computed on demand from the transaction store; there
// are no materialized rollups to drift out of sync.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
)

// TopMerchantCount bounds the merchant breakdown in the overview.
const TopMerchantCount = 10

// CategoryBreakdown is one category's share of the month's expenses.
// A nil CategoryID is the uncategorized bucket.
type CategoryBreakdown struct {
	CategoryID *string
	Amount     int64 // absolute minor units
	Count      int
	Percent    float64
}

// MerchantBreakdown is one merchant's share of the month's expenses.
type MerchantBreakdown struct {
	Merchant string
	Amount   int64 // absolute minor units
	Count    int
}

// DayPoint is one day of the month's series. Days without transactions
// appear with zero values.
type DayPoint struct {
	Date     time.Time
	Income   int64 // minor units
	Expenses int64 // absolute minor units
	Net      int64 // income minus expenses, signed
	Count    int
}

// MonthlyOverview is the full aggregation for one calendar month.
type MonthlyOverview struct {
	Year                int
	Month               time.Month
	TotalIncome         int64 // minor units
	TotalExpenses       int64 // absolute minor units
	Net                 int64 // income minus expenses, signed
	TransactionCount    int
	CategorizedCount    int
	UncategorizedCount  int
	ManualOverrideCount int
	Categories          []CategoryBreakdown
	TopMerchants        []MerchantBreakdown
	DailySpending       []DayPoint
}

// OverviewUseCase computes the monthly overview.
type OverviewUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewOverviewUseCase creates an OverviewUseCase instance.
func NewOverviewUseCase(txRepo adapter.TransactionRepository) *OverviewUseCase {
	return &OverviewUseCase{txRepo: txRepo}
}

// Execute aggregates one month in a single pass over the owner's
// transactions. Split parents are excluded by the read path; the
// children carry the money. Category and merchant breakdowns cover
// expenses only.
func (uc *OverviewUseCase) Execute(ctx context.Context, ownerID string, year int, month time.Month) (*MonthlyOverview, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	txs, err := uc.txRepo.FindByRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	overview := &MonthlyOverview{Year: year, Month: month}

	daysInMonth := end.Day()
	daily := make([]DayPoint, daysInMonth)
	byCategory := map[string]*CategoryBreakdown{}
	byMerchant := map[string]*MerchantBreakdown{}

	for _, tx := range txs {
		overview.TransactionCount++
		if tx.CategoryID != nil {
			overview.CategorizedCount++
		} else {
			overview.UncategorizedCount++
		}
		if tx.ManualOverride {
			overview.ManualOverrideCount++
		}

		day := &daily[tx.PostedAt.Day()-1]
		day.Count++

		if tx.Amount > 0 {
			overview.TotalIncome += tx.Amount
			day.Income += tx.Amount
			continue
		}
		expense := -tx.Amount
		overview.TotalExpenses += expense
		day.Expenses += expense

		key := ""
		if tx.CategoryID != nil {
			key = *tx.CategoryID
		}
		cb, ok := byCategory[key]
		if !ok {
			cb = &CategoryBreakdown{CategoryID: tx.CategoryID}
			byCategory[key] = cb
		}
		cb.Amount += expense
		cb.Count++

		if tx.MerchantNormalized != "" {
			mb, ok := byMerchant[tx.MerchantNormalized]
			if !ok {
				mb = &MerchantBreakdown{Merchant: tx.MerchantNormalized}
				byMerchant[tx.MerchantNormalized] = mb
			}
			mb.Amount += expense
			mb.Count++
		}
	}

	overview.Net = overview.TotalIncome - overview.TotalExpenses

	for _, cb := range byCategory {
		if overview.TotalExpenses > 0 {
			cb.Percent = float64(cb.Amount) / float64(overview.TotalExpenses) * 100
		}
		overview.Categories = append(overview.Categories, *cb)
	}
	// Stable null placement: on an amount tie the uncategorized bucket
	// sorts after every named category.
	sort.Slice(overview.Categories, func(i, j int) bool {
		a, b := overview.Categories[i], overview.Categories[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		if (a.CategoryID == nil) != (b.CategoryID == nil) {
			return b.CategoryID == nil
		}
		return categoryKey(a.CategoryID) < categoryKey(b.CategoryID)
	})

	for _, mb := range byMerchant {
		overview.TopMerchants = append(overview.TopMerchants, *mb)
	}
	sort.Slice(overview.TopMerchants, func(i, j int) bool {
		if overview.TopMerchants[i].Amount != overview.TopMerchants[j].Amount {
			return overview.TopMerchants[i].Amount > overview.TopMerchants[j].Amount
		}
		return overview.TopMerchants[i].Merchant < overview.TopMerchants[j].Merchant
	})
	if len(overview.TopMerchants) > TopMerchantCount {
		overview.TopMerchants = overview.TopMerchants[:TopMerchantCount]
	}

	for i := range daily {
		daily[i].Date = start.AddDate(0, 0, i)
		daily[i].Net = daily[i].Income - daily[i].Expenses
	}
	overview.DailySpending = daily

	return overview, nil
}

func categoryKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
