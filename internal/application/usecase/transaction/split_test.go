package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

type memTxRepo struct {
	byID map[string]*entity.Transaction
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{byID: map[string]*entity.Transaction{}}
}

func (m *memTxRepo) Create(_ context.Context, tx *entity.Transaction) error {
	m.byID[tx.ID] = tx
	return nil
}

func (m *memTxRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Transaction, error) {
	tx, ok := m.byID[id]
	if !ok || tx.OwnerID != ownerID {
		return nil, domainerror.ErrTransactionNotFound
	}
	return tx, nil
}

func (m *memTxRepo) FindByFilter(context.Context, string, adapter.TransactionFilter, string, int) (*adapter.TransactionPage, error) {
	return &adapter.TransactionPage{}, nil
}

func (m *memTxRepo) FindByRange(context.Context, string, time.Time, time.Time) ([]*entity.Transaction, error) {
	return nil, nil
}

func (m *memTxRepo) ExistingTxKeys(context.Context, string, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (m *memTxRepo) Update(_ context.Context, tx *entity.Transaction) error {
	m.byID[tx.ID] = tx
	return nil
}

func (m *memTxRepo) UpdateCategorization(context.Context, string, string, *string, entity.Explainability, *entity.AutoCategory) error {
	return nil
}

func (m *memTxRepo) CreateSplit(_ context.Context, _, parentID string, children []*entity.Transaction) error {
	parent := m.byID[parentID]
	parent.IsSplitParent = true
	for _, child := range children {
		m.byID[child.ID] = child
	}
	return nil
}

func (m *memTxRepo) Unsplit(_ context.Context, _, parentID string) (int, error) {
	parent := m.byID[parentID]
	parent.IsSplitParent = false
	var deleted int
	for id, tx := range m.byID {
		if tx.SplitParentID != nil && *tx.SplitParentID == parentID {
			delete(m.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memTxRepo) FindSplitChildren(_ context.Context, _, parentID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, tx := range m.byID {
		if tx.SplitParentID != nil && *tx.SplitParentID == parentID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func (m *memCategoryRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Category, error) {
	c, ok := m.categories[id]
	if !ok || !c.AccessibleBy(ownerID) {
		return nil, domainerror.ErrCategoryNotFound
	}
	return c, nil
}

func (m *memCategoryRepo) FindVisible(context.Context, string) ([]*entity.Category, error) {
	return nil, nil
}

func (m *memCategoryRepo) Create(context.Context, *entity.Category) error { return nil }

func seedParent(repo *memTxRepo, amount int64) *entity.Transaction {
	tx := entity.NewTransaction("owner-1", "acct-1", "imp-1", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), amount, "GROCERY MART", "GROCERY MART")
	tx.MerchantNormalized = "GROCERY MART"
	repo.byID[tx.ID] = tx
	return tx
}

func newSplitFixture() (*SplitUseCase, *memTxRepo) {
	repo := newMemTxRepo()
	categories := &memCategoryRepo{categories: map[string]*entity.Category{
		"cat-food": {ID: "cat-food", Name: "Food", IsDefault: true},
	}}
	return NewSplitUseCase(repo, categories), repo
}

func TestSplitUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("splits a transaction into parts", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)
		catFood := "cat-food"

		children, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{
			{Amount: -6000, CategoryID: &catFood},
			{Amount: -4000},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(children) != 2 {
			t.Fatalf("expected 2 children, got %d", len(children))
		}
		if !parent.IsSplitParent {
			t.Error("expected the parent to be flagged as split")
		}

		first := children[0]
		if first.Description != "GROCERY MART (Split 1/2)" {
			t.Errorf("unexpected child description %q", first.Description)
		}
		if first.TxKey != parent.TxKey+"_split_1" {
			t.Errorf("unexpected child txKey %q", first.TxKey)
		}
		if first.Explainability.Reason != entity.ExplainReasonSplit {
			t.Errorf("expected split explainability, got %s", first.Explainability.Reason)
		}
		if first.Explainability.Confidence != 1.0 {
			t.Errorf("expected confidence 1.0, got %v", first.Explainability.Confidence)
		}
		if !first.ManualOverride {
			t.Error("a child with an explicit category should carry manual override")
		}
		if children[1].ManualOverride {
			t.Error("a child without a category should not carry manual override")
		}
		if children[1].CategoryID != nil {
			t.Errorf("expected nil category, got %v", *children[1].CategoryID)
		}
	})

	t.Run("rejects amounts that do not sum to the parent", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)

		_, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{
			{Amount: -6000},
			{Amount: -3000},
		})
		if !errors.Is(err, domainerror.ErrSplitAmountMismatch) {
			t.Fatalf("expected ErrSplitAmountMismatch, got %v", err)
		}
	})

	t.Run("rejects sign mismatches", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)

		_, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{
			{Amount: -11000},
			{Amount: 1000},
		})
		if !errors.Is(err, domainerror.ErrSplitSignMismatch) {
			t.Fatalf("expected ErrSplitSignMismatch, got %v", err)
		}
	})

	t.Run("rejects out-of-range part counts", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)

		if _, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{{Amount: -10000}}); !errors.Is(err, domainerror.ErrSplitCountOutOfRange) {
			t.Fatalf("expected ErrSplitCountOutOfRange for 1 part, got %v", err)
		}

		parts := make([]SplitPart, 11)
		for i := range parts {
			parts[i] = SplitPart{Amount: -10000 / 11}
		}
		if _, err := uc.Execute(ctx, "owner-1", parent.ID, parts); !errors.Is(err, domainerror.ErrSplitCountOutOfRange) {
			t.Fatalf("expected ErrSplitCountOutOfRange for 11 parts, got %v", err)
		}
	})

	t.Run("rejects double splits", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)

		if _, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{{Amount: -6000}, {Amount: -4000}}); err != nil {
			t.Fatalf("first split failed: %v", err)
		}
		if _, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{{Amount: -5000}, {Amount: -5000}}); !errors.Is(err, domainerror.ErrAlreadySplit) {
			t.Fatalf("expected ErrAlreadySplit, got %v", err)
		}
	})

	t.Run("rejects splitting a child", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)

		children, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{{Amount: -6000}, {Amount: -4000}})
		if err != nil {
			t.Fatalf("split failed: %v", err)
		}
		if _, err := uc.Execute(ctx, "owner-1", children[0].ID, []SplitPart{{Amount: -3000}, {Amount: -3000}}); !errors.Is(err, domainerror.ErrSplitChild) {
			t.Fatalf("expected ErrSplitChild, got %v", err)
		}
	})

	t.Run("unsplit deletes the children and restores the parent", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -10000)
		if _, err := uc.Execute(ctx, "owner-1", parent.ID, []SplitPart{{Amount: -6000}, {Amount: -4000}}); err != nil {
			t.Fatalf("split failed: %v", err)
		}

		unsplit := NewUnsplitUseCase(repo)
		deleted, err := unsplit.Execute(ctx, "owner-1", parent.ID)
		if err != nil {
			t.Fatalf("unsplit failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("expected 2 deleted children, got %d", deleted)
		}
		if parent.IsSplitParent {
			t.Error("expected the parent's split flag to be cleared")
		}
	})

	t.Run("unsplit rejects non-parents", func(t *testing.T) {
		_, repo := newSplitFixture()
		plain := seedParent(repo, -10000)

		unsplit := NewUnsplitUseCase(repo)
		if _, err := unsplit.Execute(ctx, "owner-1", plain.ID); !errors.Is(err, domainerror.ErrNotSplitParent) {
			t.Fatalf("expected ErrNotSplitParent, got %v", err)
		}
	})

	t.Run("get splits lists the children", func(t *testing.T) {
		uc, repo := newSplitFixture()
		parent := seedParent(repo, -9000)
		parts := []SplitPart{{Amount: -3000}, {Amount: -3000}, {Amount: -3000}}
		if _, err := uc.Execute(ctx, "owner-1", parent.ID, parts); err != nil {
			t.Fatalf("split failed: %v", err)
		}

		get := NewGetSplitsUseCase(repo)
		children, err := get.Execute(ctx, "owner-1", parent.ID)
		if err != nil {
			t.Fatalf("get splits failed: %v", err)
		}
		if len(children) != 3 {
			t.Errorf("expected 3 children, got %d", len(children))
		}
	})
}

func TestUpdateUseCase(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*UpdateUseCase, *memTxRepo) {
		repo := newMemTxRepo()
		categories := &memCategoryRepo{categories: map[string]*entity.Category{
			"cat-food": {ID: "cat-food", Name: "Food", IsDefault: true},
		}}
		return NewUpdateUseCase(repo, categories, nil), repo
	}

	t.Run("category correction flips manual override and preserves the machine answer", func(t *testing.T) {
		uc, repo := newFixture()
		tx := seedParent(repo, -5000)
		ruleID := "rule-1"
		autoCat := "cat-auto"
		tx.CategoryID = &autoCat
		tx.Explainability = entity.Explainability{
			Reason:     entity.ExplainReasonRuleMatch,
			RuleID:     &ruleID,
			Confidence: 0.8,
			Timestamp:  time.Now().UTC(),
		}

		catFood := "cat-food"
		out, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{CategoryID: &catFood, CategorySet: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		updated := out.Transaction
		if updated.CategoryID == nil || *updated.CategoryID != "cat-food" {
			t.Errorf("expected category cat-food, got %v", updated.CategoryID)
		}
		if !updated.ManualOverride {
			t.Error("expected manual override")
		}
		if updated.CorrectedAt == nil {
			t.Error("expected correctedAt to be stamped")
		}
		if updated.Explainability.Reason != entity.ExplainReasonManual {
			t.Errorf("expected manual explainability, got %s", updated.Explainability.Reason)
		}
		if updated.AutoCategory == nil {
			t.Fatal("expected the machine answer to be preserved")
		}
		if updated.AutoCategory.CategoryID == nil || *updated.AutoCategory.CategoryID != "cat-auto" {
			t.Errorf("expected preserved auto category cat-auto, got %v", updated.AutoCategory.CategoryID)
		}
		if updated.AutoCategory.Explainability.Reason != entity.ExplainReasonRuleMatch {
			t.Errorf("expected preserved rule_match explainability, got %s", updated.AutoCategory.Explainability.Reason)
		}
	})

	t.Run("clearing the category keeps manual override", func(t *testing.T) {
		uc, repo := newFixture()
		tx := seedParent(repo, -5000)

		out, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{CategorySet: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.CategoryID != nil {
			t.Errorf("expected nil category, got %v", *out.Transaction.CategoryID)
		}
		if !out.Transaction.ManualOverride {
			t.Error("expected manual override")
		}
	})

	t.Run("validates notes and tags", func(t *testing.T) {
		uc, repo := newFixture()
		tx := seedParent(repo, -5000)

		longNotes := make([]byte, entity.MaxNotesLength+1)
		for i := range longNotes {
			longNotes[i] = 'x'
		}
		notes := string(longNotes)
		if _, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{Notes: &notes}); !errors.Is(err, domainerror.ErrNotesTooLong) {
			t.Fatalf("expected ErrNotesTooLong, got %v", err)
		}

		var tags []string
		for i := 0; i <= entity.MaxTags; i++ {
			tags = append(tags, fmt.Sprintf("tag-%d", i))
		}
		if _, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{Tags: tags, TagsSet: true}); !errors.Is(err, domainerror.ErrTooManyTags) {
			t.Fatalf("expected ErrTooManyTags, got %v", err)
		}

		long := make([]byte, entity.MaxTagLength+1)
		for i := range long {
			long[i] = 't'
		}
		if _, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{Tags: []string{string(long)}, TagsSet: true}); !errors.Is(err, domainerror.ErrTagTooLong) {
			t.Fatalf("expected ErrTagTooLong, got %v", err)
		}
	})

	t.Run("notes-only updates never flip manual override", func(t *testing.T) {
		uc, repo := newFixture()
		tx := seedParent(repo, -5000)

		notes := "lunch with the team"
		out, err := uc.Execute(ctx, "owner-1", tx.ID, UpdateInput{Notes: &notes})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.ManualOverride {
			t.Error("notes updates must not set manual override")
		}
		if out.Transaction.Notes != notes {
			t.Errorf("expected notes %q, got %q", notes, out.Transaction.Notes)
		}
	})

	t.Run("rejects cross-owner access", func(t *testing.T) {
		uc, repo := newFixture()
		tx := seedParent(repo, -5000)

		notes := "x"
		if _, err := uc.Execute(ctx, "owner-2", tx.ID, UpdateInput{Notes: &notes}); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})
}
