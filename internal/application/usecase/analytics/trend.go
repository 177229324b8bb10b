package analytics

import (
	"context"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
)

// Trend window bounds.
const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24
)

// TrendPoint is one month of the spending trend. PercentChange is nil
// for the first month and whenever the previous month's base is zero.
type TrendPoint struct {
	Year          int
	Month         time.Month
	TotalExpenses int64 // absolute minor units
	TotalIncome   int64
	PercentChange *float64
}

// TrendUseCase computes the month-over-month spending trend.
type TrendUseCase struct {
	txRepo adapter.TransactionRepository
}

// NewTrendUseCase creates a TrendUseCase instance.
func NewTrendUseCase(txRepo adapter.TransactionRepository) *TrendUseCase {
	return &TrendUseCase{txRepo: txRepo}
}

// Execute aggregates the trailing months up to and including the
// current one, oldest first.
func (uc *TrendUseCase) Execute(ctx context.Context, ownerID string, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	if months > MaxTrendMonths {
		months = MaxTrendMonths
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0).Add(-time.Nanosecond)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	txs, err := uc.txRepo.FindByRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, months)
	index := map[string]int{}
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		points[i] = TrendPoint{Year: m.Year(), Month: m.Month()}
		index[m.Format("2006-01")] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.PostedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		if tx.Amount > 0 {
			points[i].TotalIncome += tx.Amount
		} else {
			points[i].TotalExpenses += -tx.Amount
		}
	}

	for i := 1; i < len(points); i++ {
		base := points[i-1].TotalExpenses
		if base == 0 {
			continue
		}
		change := (float64(points[i].TotalExpenses) - float64(base)) / float64(base) * 100
		points[i].PercentChange = &change
	}

	return points, nil
}
