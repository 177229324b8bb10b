package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

type rangeTxRepo struct {
	txs []*entity.Transaction
}

func (r *rangeTxRepo) Create(context.Context, *entity.Transaction) error { return nil }
func (r *rangeTxRepo) FindByID(context.Context, string, string) (*entity.Transaction, error) {
	return nil, nil
}
func (r *rangeTxRepo) FindByFilter(context.Context, string, adapter.TransactionFilter, string, int) (*adapter.TransactionPage, error) {
	return &adapter.TransactionPage{}, nil
}

func (r *rangeTxRepo) FindByRange(_ context.Context, ownerID string, start, end time.Time) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, tx := range r.txs {
		if tx.OwnerID != ownerID || tx.IsSplitParent {
			continue
		}
		if tx.PostedAt.Before(start) || tx.PostedAt.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *rangeTxRepo) ExistingTxKeys(context.Context, string, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}
func (r *rangeTxRepo) Update(context.Context, *entity.Transaction) error { return nil }
func (r *rangeTxRepo) UpdateCategorization(context.Context, string, string, *string, entity.Explainability, *entity.AutoCategory) error {
	return nil
}
func (r *rangeTxRepo) CreateSplit(context.Context, string, string, []*entity.Transaction) error {
	return nil
}
func (r *rangeTxRepo) Unsplit(context.Context, string, string) (int, error) { return 0, nil }
func (r *rangeTxRepo) FindSplitChildren(context.Context, string, string) ([]*entity.Transaction, error) {
	return nil, nil
}

func seedTx(repo *rangeTxRepo, day int, amount int64, merchant string, categoryID *string) *entity.Transaction {
	tx := entity.NewTransaction("owner-1", "acct-1", "imp-1", time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC), amount, merchant, merchant)
	tx.MerchantNormalized = merchant
	tx.CategoryID = categoryID
	repo.txs = append(repo.txs, tx)
	return tx
}

func TestOverviewUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates income, expenses and breakdowns", func(t *testing.T) {
		repo := &rangeTxRepo{}
		food := "cat-food"
		seedTx(repo, 1, 250000, "EMPLOYER", nil)
		seedTx(repo, 5, -6000, "GROCERY MART", &food)
		seedTx(repo, 5, -4000, "GROCERY MART", &food)
		seedTx(repo, 12, -10000, "GAS STATION", nil)

		uc := NewOverviewUseCase(repo)
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.June)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if overview.TotalIncome != 250000 {
			t.Errorf("expected income 250000, got %d", overview.TotalIncome)
		}
		if overview.TotalExpenses != 20000 {
			t.Errorf("expected expenses 20000, got %d", overview.TotalExpenses)
		}
		if overview.Net != 230000 {
			t.Errorf("expected net 230000, got %d", overview.Net)
		}
		if overview.TransactionCount != 4 {
			t.Errorf("expected 4 transactions, got %d", overview.TransactionCount)
		}
		if overview.CategorizedCount != 2 {
			t.Errorf("expected 2 categorized, got %d", overview.CategorizedCount)
		}
		if overview.UncategorizedCount != 2 {
			t.Errorf("expected 2 uncategorized, got %d", overview.UncategorizedCount)
		}

		if len(overview.Categories) != 2 {
			t.Fatalf("expected 2 category buckets, got %d", len(overview.Categories))
		}
		// cat-food and the uncategorized bucket tie at 10000; the nil
		// bucket sorts last.
		top := overview.Categories[0]
		if top.CategoryID == nil || *top.CategoryID != "cat-food" {
			t.Errorf("expected cat-food on top, got %v", top.CategoryID)
		}
		if top.Amount != 10000 || top.Count != 2 {
			t.Errorf("expected cat-food 10000/2, got %d/%d", top.Amount, top.Count)
		}
		if top.Percent != 50 {
			t.Errorf("expected cat-food at 50%%, got %v", top.Percent)
		}
		uncategorized := overview.Categories[1]
		if uncategorized.CategoryID != nil {
			t.Errorf("expected the uncategorized bucket, got %v", *uncategorized.CategoryID)
		}
	})

	t.Run("zero-fills the daily series", func(t *testing.T) {
		repo := &rangeTxRepo{}
		seedTx(repo, 5, -6000, "GROCERY MART", nil)
		seedTx(repo, 5, 10000, "EMPLOYER", nil)

		uc := NewOverviewUseCase(repo)
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.June)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(overview.DailySpending) != 30 {
			t.Fatalf("expected 30 days for June, got %d", len(overview.DailySpending))
		}
		june5 := overview.DailySpending[4]
		if june5.Expenses != 6000 || june5.Income != 10000 || june5.Net != 4000 || june5.Count != 2 {
			t.Errorf("unexpected June 5 point %+v", june5)
		}
		empty := overview.DailySpending[0]
		if empty.Income != 0 || empty.Expenses != 0 || empty.Net != 0 || empty.Count != 0 {
			t.Errorf("expected a zero point on an empty day, got %+v", empty)
		}
		if !empty.Date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected first day %v", empty.Date)
		}
	})

	t.Run("counts manual overrides", func(t *testing.T) {
		repo := &rangeTxRepo{}
		food := "cat-food"
		corrected := seedTx(repo, 3, -2000, "GROCERY MART", &food)
		corrected.ManualOverride = true
		seedTx(repo, 4, -3000, "GAS STATION", nil)

		uc := NewOverviewUseCase(repo)
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.June)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if overview.ManualOverrideCount != 1 {
			t.Errorf("expected 1 manual override, got %d", overview.ManualOverrideCount)
		}
		if overview.CategorizedCount != 1 || overview.UncategorizedCount != 1 {
			t.Errorf("unexpected counters %d/%d", overview.CategorizedCount, overview.UncategorizedCount)
		}
	})

	t.Run("caps the merchant breakdown", func(t *testing.T) {
		repo := &rangeTxRepo{}
		for i := 0; i < 15; i++ {
			seedTx(repo, 10, -int64(1000+i), fmt.Sprintf("MERCHANT %02d", i), nil)
		}

		uc := NewOverviewUseCase(repo)
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.June)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overview.TopMerchants) != TopMerchantCount {
			t.Fatalf("expected %d merchants, got %d", TopMerchantCount, len(overview.TopMerchants))
		}
		if overview.TopMerchants[0].Amount != 1014 {
			t.Errorf("expected the largest merchant first, got %d", overview.TopMerchants[0].Amount)
		}
	})

	t.Run("handles an empty month", func(t *testing.T) {
		uc := NewOverviewUseCase(&rangeTxRepo{})
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.February)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if overview.TransactionCount != 0 || overview.TotalIncome != 0 || overview.TotalExpenses != 0 {
			t.Error("expected an all-zero overview")
		}
		if len(overview.DailySpending) != 29 {
			t.Errorf("expected 29 zero-filled days for February 2024, got %d", len(overview.DailySpending))
		}
		if len(overview.Categories) != 0 {
			t.Errorf("expected no category buckets, got %d", len(overview.Categories))
		}
	})

	t.Run("excludes split parents", func(t *testing.T) {
		repo := &rangeTxRepo{}
		parent := seedTx(repo, 8, -9000, "GROCERY MART", nil)
		parent.IsSplitParent = true
		child := seedTx(repo, 8, -9000, "GROCERY MART", nil)
		child.SplitParentID = &parent.ID

		uc := NewOverviewUseCase(repo)
		overview, err := uc.Execute(ctx, "owner-1", 2024, time.June)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if overview.TotalExpenses != 9000 {
			t.Errorf("expected expenses counted once, got %d", overview.TotalExpenses)
		}
	})
}

func TestTrendUseCase(t *testing.T) {
	repo := &rangeTxRepo{}
	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	for _, seed := range []struct {
		at     time.Time
		amount int64
	}{
		{lastMonth, -10000},
		{thisMonth, -15000},
		{thisMonth, 50000},
	} {
		tx := entity.NewTransaction("owner-1", "acct-1", "imp-1", seed.at, seed.amount, "X", "X")
		repo.txs = append(repo.txs, tx)
	}

	uc := NewTrendUseCase(repo)
	points, err := uc.Execute(context.Background(), "owner-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].PercentChange != nil {
		t.Error("the first month never has a percent change")
	}
	if points[1].PercentChange != nil {
		t.Error("a zero base month yields no percent change")
	}
	if points[1].TotalExpenses != 10000 {
		t.Errorf("expected 10000 expenses last month, got %d", points[1].TotalExpenses)
	}
	if points[2].PercentChange == nil {
		t.Fatal("expected a percent change for the current month")
	}
	if *points[2].PercentChange != 50 {
		t.Errorf("expected +50%%, got %v", *points[2].PercentChange)
	}
	if points[2].TotalIncome != 50000 {
		t.Errorf("expected 50000 income this month, got %d", points[2].TotalIncome)
	}
}
