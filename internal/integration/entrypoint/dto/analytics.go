package dto

import (
	"github.com/ledgerline/backend/internal/application/usecase/analytics"
)

// CategoryBreakdownResponse is one category's share of a period's
// expenses. Amounts are absolute minor units; a null categoryId is the
// uncategorized bucket.
type CategoryBreakdownResponse struct {
	CategoryID *string `json:"categoryId"`
	Amount     int64   `json:"amount"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
}

// MerchantBreakdownResponse is one merchant's share of a month's expenses.
type MerchantBreakdownResponse struct {
	Merchant string `json:"merchant"`
	Amount   int64  `json:"amount"`
	Count    int    `json:"count"`
}

// DayPointResponse is one day of the month's series.
type DayPointResponse struct {
	Date     string `json:"date"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
	Net      int64  `json:"net"`
	Count    int    `json:"count"`
}

// MonthlyOverviewResponse is the full aggregation for one calendar month.
type MonthlyOverviewResponse struct {
	Year                int                         `json:"year"`
	Month               int                         `json:"month"`
	TotalIncome         int64                       `json:"totalIncome"`
	TotalExpenses       int64                       `json:"totalExpenses"`
	Net                 int64                       `json:"net"`
	TransactionCount    int                         `json:"transactionCount"`
	CategorizedCount    int                         `json:"categorizedCount"`
	UncategorizedCount  int                         `json:"uncategorizedCount"`
	ManualOverrideCount int                         `json:"manualOverrideCount"`
	Categories          []CategoryBreakdownResponse `json:"categories"`
	TopMerchants        []MerchantBreakdownResponse `json:"topMerchants"`
	DailySpending       []DayPointResponse          `json:"dailySpending"`
}

// TrendPointResponse is one month of the spending trend. PercentChange
// is null for the first month and whenever the prior base is zero.
type TrendPointResponse struct {
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	TotalExpenses int64    `json:"totalExpenses"`
	TotalIncome   int64    `json:"totalIncome"`
	PercentChange *float64 `json:"percentChange"`
}

// CategoryRangeResponse is one category's expense total over a range.
type CategoryRangeResponse struct {
	CategoryID *string `json:"categoryId"`
	Amount     int64   `json:"amount"`
	Count      int     `json:"count"`
}

// AccountSummaryResponse is one account's activity over a range.
type AccountSummaryResponse struct {
	AccountID        string `json:"accountId"`
	TotalIncome      int64  `json:"totalIncome"`
	TotalExpenses    int64  `json:"totalExpenses"`
	TransactionCount int    `json:"transactionCount"`
}

// ToMonthlyOverviewResponse converts a MonthlyOverview aggregation.
func ToMonthlyOverviewResponse(o *analytics.MonthlyOverview) MonthlyOverviewResponse {
	categories := make([]CategoryBreakdownResponse, len(o.Categories))
	for i, c := range o.Categories {
		categories[i] = CategoryBreakdownResponse{
			CategoryID: c.CategoryID,
			Amount:     c.Amount,
			Count:      c.Count,
			Percent:    c.Percent,
		}
	}

	merchants := make([]MerchantBreakdownResponse, len(o.TopMerchants))
	for i, m := range o.TopMerchants {
		merchants[i] = MerchantBreakdownResponse{Merchant: m.Merchant, Amount: m.Amount, Count: m.Count}
	}

	days := make([]DayPointResponse, len(o.DailySpending))
	for i, d := range o.DailySpending {
		days[i] = DayPointResponse{
			Date:     d.Date.Format("2006-01-02"),
			Income:   d.Income,
			Expenses: d.Expenses,
			Net:      d.Net,
			Count:    d.Count,
		}
	}

	return MonthlyOverviewResponse{
		Year:                o.Year,
		Month:               int(o.Month),
		TotalIncome:         o.TotalIncome,
		TotalExpenses:       o.TotalExpenses,
		Net:                 o.Net,
		TransactionCount:    o.TransactionCount,
		CategorizedCount:    o.CategorizedCount,
		UncategorizedCount:  o.UncategorizedCount,
		ManualOverrideCount: o.ManualOverrideCount,
		Categories:          categories,
		TopMerchants:        merchants,
		DailySpending:       days,
	}
}

// ToTrendResponse converts a spending trend series.
func ToTrendResponse(points []analytics.TrendPoint) []TrendPointResponse {
	out := make([]TrendPointResponse, len(points))
	for i, p := range points {
		out[i] = TrendPointResponse{
			Year:          p.Year,
			Month:         int(p.Month),
			TotalExpenses: p.TotalExpenses,
			TotalIncome:   p.TotalIncome,
			PercentChange: p.PercentChange,
		}
	}
	return out
}

// ToCategoryRangeResponse converts a category range breakdown.
func ToCategoryRangeResponse(breakdowns []analytics.CategoryRangeBreakdown) []CategoryRangeResponse {
	out := make([]CategoryRangeResponse, len(breakdowns))
	for i, b := range breakdowns {
		out[i] = CategoryRangeResponse{CategoryID: b.CategoryID, Amount: b.Amount, Count: b.Count}
	}
	return out
}

// ToAccountSummaryResponse converts per-account summaries.
func ToAccountSummaryResponse(summaries []analytics.AccountSummary) []AccountSummaryResponse {
	out := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = AccountSummaryResponse{
			AccountID:        s.AccountID,
			TotalIncome:      s.TotalIncome,
			TotalExpenses:    s.TotalExpenses,
			TransactionCount: s.TransactionCount,
		}
	}
	return out
}
