package rule

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

type stubRuleRepo struct {
	rules      map[string]*entity.Rule
	priorities map[string]int
}

func newStubRuleRepo() *stubRuleRepo {
	return &stubRuleRepo{rules: map[string]*entity.Rule{}, priorities: map[string]int{}}
}

func (s *stubRuleRepo) Create(_ context.Context, r *entity.Rule) error {
	s.rules[r.ID] = r
	return nil
}

func (s *stubRuleRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Rule, error) {
	r, ok := s.rules[id]
	if !ok || r.OwnerID != ownerID {
		return nil, domainerror.ErrRuleNotFound
	}
	return r, nil
}

func (s *stubRuleRepo) FindByOwner(_ context.Context, ownerID string) ([]*entity.Rule, error) {
	var out []*entity.Rule
	for _, r := range s.rules {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRuleRepo) FindEnabledByOwner(ctx context.Context, ownerID string) ([]*entity.Rule, error) {
	return s.FindByOwner(ctx, ownerID)
}

func (s *stubRuleRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, r := range s.rules {
		if r.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *stubRuleRepo) Update(_ context.Context, r *entity.Rule) error {
	s.rules[r.ID] = r
	return nil
}

func (s *stubRuleRepo) Delete(_ context.Context, _, id string) error {
	delete(s.rules, id)
	return nil
}

func (s *stubRuleRepo) UpdatePriorities(_ context.Context, _ string, assignments []adapter.RulePriorityAssignment) error {
	for _, a := range assignments {
		s.priorities[a.ID] = a.Priority
		if r, ok := s.rules[a.ID]; ok {
			r.Priority = a.Priority
		}
	}
	return nil
}

func (s *stubRuleRepo) IncrementMatchStats(_ context.Context, _, id string) error {
	if r, ok := s.rules[id]; ok {
		r.MatchCount++
	}
	return nil
}

func (s *stubRuleRepo) ExistsMerchantRule(_ context.Context, ownerID, merchant string) (bool, error) {
	for _, r := range s.rules {
		if r.OwnerID != ownerID {
			continue
		}
		if r.Conditions.MerchantExact != nil && strings.EqualFold(*r.Conditions.MerchantExact, merchant) {
			return true, nil
		}
		if r.Conditions.MerchantContains != nil && strings.EqualFold(*r.Conditions.MerchantContains, merchant) {
			return true, nil
		}
	}
	return false, nil
}

type stubDismissedRepo struct {
	dismissed map[string]bool
}

func newStubDismissedRepo() *stubDismissedRepo {
	return &stubDismissedRepo{dismissed: map[string]bool{}}
}

func dismissalKey(ownerID, merchant, categoryID string) string {
	return ownerID + "|" + merchant + "|" + categoryID
}

func (s *stubDismissedRepo) Create(_ context.Context, d *entity.DismissedSuggestion) error {
	s.dismissed[dismissalKey(d.OwnerID, d.MerchantNormalized, d.CategoryID)] = true
	return nil
}

func (s *stubDismissedRepo) Exists(_ context.Context, ownerID, merchant, categoryID string) (bool, error) {
	return s.dismissed[dismissalKey(ownerID, merchant, categoryID)], nil
}

type stubCategoryRepo struct {
	categories map[string]*entity.Category
}

func (s *stubCategoryRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Category, error) {
	c, ok := s.categories[id]
	if !ok || !c.AccessibleBy(ownerID) {
		return nil, domainerror.ErrCategoryNotFound
	}
	return c, nil
}

func (s *stubCategoryRepo) FindVisible(context.Context, string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	s.categories[c.ID] = c
	return nil
}

func defaultCategory(id, name string) *entity.Category {
	return &entity.Category{ID: id, Name: name, IsDefault: true}
}

func newCreateFixture() (*CreateUseCase, *stubRuleRepo) {
	rules := newStubRuleRepo()
	categories := &stubCategoryRepo{categories: map[string]*entity.Category{
		"cat-coffee": defaultCategory("cat-coffee", "Coffee"),
	}}
	return NewCreateUseCase(rules, categories), rules
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestCreateUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a rule with defaults", func(t *testing.T) {
		uc, repo := newCreateFixture()

		created, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "Coffee shops",
			Conditions: entity.RuleConditions{MerchantContains: strptr("COFFEE")},
			Action:     entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Priority != entity.DefaultUserRulePriority {
			t.Errorf("expected default priority %d, got %d", entity.DefaultUserRulePriority, created.Priority)
		}
		if created.Source != entity.RuleSourceUser {
			t.Errorf("expected user source, got %s", created.Source)
		}
		if !created.Enabled {
			t.Error("expected the rule to be enabled")
		}
		if _, ok := repo.rules[created.ID]; !ok {
			t.Error("rule not persisted")
		}
	})

	t.Run("clamps out-of-range priorities", func(t *testing.T) {
		uc, _ := newCreateFixture()

		created, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "Priority clamp",
			Priority:   intptr(99999),
			Conditions: entity.RuleConditions{MerchantContains: strptr("COFFEE")},
			Action:     entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Priority != entity.MaxRulePriority {
			t.Errorf("expected clamped priority %d, got %d", entity.MaxRulePriority, created.Priority)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		uc, _ := newCreateFixture()

		_, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "  ",
			Conditions: entity.RuleConditions{MerchantContains: strptr("COFFEE")},
			Action:     entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if !errors.Is(err, domainerror.ErrRuleNameRequired) {
			t.Fatalf("expected ErrRuleNameRequired, got %v", err)
		}
	})

	t.Run("requires at least one condition", func(t *testing.T) {
		uc, _ := newCreateFixture()

		_, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:   "No conditions",
			Action: entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if !errors.Is(err, domainerror.ErrNoRuleConditions) {
			t.Fatalf("expected ErrNoRuleConditions, got %v", err)
		}
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		uc, _ := newCreateFixture()

		_, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "Unknown category",
			Conditions: entity.RuleConditions{MerchantContains: strptr("COFFEE")},
			Action:     entity.RuleAction{CategoryID: "cat-missing"},
		})
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("rejects unsafe regex patterns", func(t *testing.T) {
		uc, _ := newCreateFixture()

		_, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "Unsafe regex",
			Conditions: entity.RuleConditions{MerchantRegex: strptr("(.*)+")},
			Action:     entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if !errors.Is(err, domainerror.ErrUnsafePattern) {
			t.Fatalf("expected ErrUnsafePattern, got %v", err)
		}
	})

	t.Run("enforces the per-owner cap", func(t *testing.T) {
		uc, repo := newCreateFixture()
		for i := 0; i < entity.MaxRulesPerOwner; i++ {
			r := entity.NewRule("owner-1", "filler", 500, entity.RuleConditions{MerchantContains: strptr("X")}, entity.RuleAction{CategoryID: "cat-coffee"}, entity.RuleSourceUser)
			repo.rules[r.ID] = r
		}

		_, err := uc.Execute(ctx, "owner-1", CreateInput{
			Name:       "One too many",
			Conditions: entity.RuleConditions{MerchantContains: strptr("COFFEE")},
			Action:     entity.RuleAction{CategoryID: "cat-coffee"},
		})
		if !errors.Is(err, domainerror.ErrRuleLimitReached) {
			t.Fatalf("expected ErrRuleLimitReached, got %v", err)
		}
	})
}

func TestReorderUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns descending priorities", func(t *testing.T) {
		repo := newStubRuleRepo()
		var ids []string
		for i := 0; i < 3; i++ {
			r := entity.NewRule("owner-1", "r", 500, entity.RuleConditions{MerchantContains: strptr("X")}, entity.RuleAction{CategoryID: "cat"}, entity.RuleSourceUser)
			repo.rules[r.ID] = r
			ids = append(ids, r.ID)
		}

		uc := NewReorderUseCase(repo)
		if err := uc.Execute(ctx, "owner-1", ids); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, id := range ids {
			want := entity.MaxRulePriority - i
			if got := repo.priorities[id]; got != want {
				t.Errorf("rule %d: expected priority %d, got %d", i, want, got)
			}
		}
	})

	t.Run("rejects foreign rule ids", func(t *testing.T) {
		repo := newStubRuleRepo()
		foreign := entity.NewRule("owner-2", "r", 500, entity.RuleConditions{MerchantContains: strptr("X")}, entity.RuleAction{CategoryID: "cat"}, entity.RuleSourceUser)
		repo.rules[foreign.ID] = foreign

		uc := NewReorderUseCase(repo)
		if err := uc.Execute(ctx, "owner-1", []string{foreign.ID}); !errors.Is(err, domainerror.ErrRuleNotFound) {
			t.Fatalf("expected ErrRuleNotFound, got %v", err)
		}
	})
}

func newSuggestionFixture() (*SuggestionEngine, *stubRuleRepo, *stubDismissedRepo) {
	rules := newStubRuleRepo()
	dismissed := newStubDismissedRepo()
	categories := &stubCategoryRepo{categories: map[string]*entity.Category{
		"cat-coffee": defaultCategory("cat-coffee", "Coffee"),
	}}
	return NewSuggestionEngine(rules, dismissed, categories), rules, dismissed
}

func TestSuggestionEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("offers a suggestion after a correction", func(t *testing.T) {
		engine, _, _ := newSuggestionFixture()

		s := engine.AfterCorrection(ctx, "owner-1", "CHIPOTLE", "cat-coffee")
		if s == nil {
			t.Fatal("expected a suggestion")
		}
		if s.Rule.Conditions.MerchantContains == nil || *s.Rule.Conditions.MerchantContains != "CHIPOTLE" {
			t.Errorf("expected merchantContains CHIPOTLE, got %+v", s.Rule.Conditions)
		}
		if s.Rule.Conditions.MerchantExact != nil {
			t.Errorf("expected no merchantExact condition, got %+v", s.Rule.Conditions)
		}
		if s.Rule.Action.CategoryID != "cat-coffee" {
			t.Errorf("expected category cat-coffee, got %s", s.Rule.Action.CategoryID)
		}
		if s.Rule.Priority != entity.DefaultSuggestionRulePriority {
			t.Errorf("expected priority %d, got %d", entity.DefaultSuggestionRulePriority, s.Rule.Priority)
		}
		if !strings.Contains(s.Message, "CHIPOTLE") || !strings.Contains(s.Message, "Coffee") {
			t.Errorf("unexpected message %q", s.Message)
		}
	})

	t.Run("suppresses short merchants", func(t *testing.T) {
		engine, _, _ := newSuggestionFixture()

		if s := engine.AfterCorrection(ctx, "owner-1", "7E", "cat-coffee"); s != nil {
			t.Errorf("expected no suggestion for a short merchant, got %+v", s)
		}
	})

	t.Run("suppresses merchants already covered by a rule", func(t *testing.T) {
		engine, rules, _ := newSuggestionFixture()
		existing := entity.NewRule("owner-1", "Starbucks", 500, entity.RuleConditions{MerchantExact: strptr("starbucks")}, entity.RuleAction{CategoryID: "cat-coffee"}, entity.RuleSourceUser)
		rules.rules[existing.ID] = existing

		if s := engine.AfterCorrection(ctx, "owner-1", "STARBUCKS", "cat-coffee"); s != nil {
			t.Errorf("expected no suggestion when a rule already targets the merchant, got %+v", s)
		}
	})

	t.Run("suppresses dismissed suggestions", func(t *testing.T) {
		engine, _, dismissed := newSuggestionFixture()
		dismiss := NewDismissSuggestionUseCase(dismissed)
		if err := dismiss.Execute(ctx, "owner-1", "STARBUCKS", "cat-coffee"); err != nil {
			t.Fatalf("dismissal failed: %v", err)
		}

		if s := engine.AfterCorrection(ctx, "owner-1", "STARBUCKS", "cat-coffee"); s != nil {
			t.Errorf("expected no suggestion after dismissal, got %+v", s)
		}
	})

	t.Run("dismissal is keyed by merchant and category", func(t *testing.T) {
		engine, _, dismissed := newSuggestionFixture()
		categories := &stubCategoryRepo{categories: map[string]*entity.Category{
			"cat-coffee": defaultCategory("cat-coffee", "Coffee"),
			"cat-food":   defaultCategory("cat-food", "Food"),
		}}
		engine.categoryRepo = categories

		dismiss := NewDismissSuggestionUseCase(dismissed)
		if err := dismiss.Execute(ctx, "owner-1", "STARBUCKS", "cat-coffee"); err != nil {
			t.Fatalf("dismissal failed: %v", err)
		}

		if s := engine.AfterCorrection(ctx, "owner-1", "STARBUCKS", "cat-food"); s == nil {
			t.Error("expected a suggestion for a different category")
		}
	})
}

func TestAcceptSuggestionUseCase(t *testing.T) {
	ctx := context.Background()

	create, repo := newCreateFixture()
	uc := NewAcceptSuggestionUseCase(create)

	created, err := uc.Execute(ctx, "owner-1", entity.SuggestedRule{
		Name:       "Auto: STARBUCKS",
		Priority:   entity.DefaultSuggestionRulePriority,
		Conditions: entity.RuleConditions{MerchantContains: strptr("STARBUCKS")},
		Action:     entity.RuleAction{CategoryID: "cat-coffee"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Source != entity.RuleSourceSuggestion {
		t.Errorf("expected suggestion source, got %s", created.Source)
	}
	if created.Priority != entity.DefaultSuggestionRulePriority {
		t.Errorf("expected priority %d, got %d", entity.DefaultSuggestionRulePriority, created.Priority)
	}
	if _, ok := repo.rules[created.ID]; !ok {
		t.Error("rule not persisted")
	}
}
