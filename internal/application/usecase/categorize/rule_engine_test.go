package categorize

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

func strptr(s string) *string { return &s }
func int64ptr(i int64) *int64 { return &i }

func engineTx(merchant string) *entity.Transaction {
	tx := entity.NewTransaction("owner-1", "acct-1", "imp-1",
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), -4500, merchant, merchant)
	tx.MerchantNormalized = merchant
	return tx
}

func engineRule(name string, priority int, conditions entity.RuleConditions, categoryID string) *entity.Rule {
	return entity.NewRule("owner-1", name, priority, conditions, entity.RuleAction{CategoryID: categoryID}, entity.RuleSourceUser)
}

func TestCategorizeWithRules(t *testing.T) {
	t.Run("higher priority wins over a lower-priority match", func(t *testing.T) {
		contains := engineRule("dining", 500, entity.RuleConditions{MerchantContains: strptr("CHIPOTLE")}, "cat-dining")
		exact := engineRule("burritos", 900, entity.RuleConditions{MerchantExact: strptr("CHIPOTLE")}, "cat-burrito")

		result := CategorizeWithRules(engineTx("CHIPOTLE"), []*entity.Rule{contains, exact})
		if result.CategoryID == nil || *result.CategoryID != "cat-burrito" {
			t.Fatalf("expected cat-burrito, got %v", result.CategoryID)
		}
		if result.Explainability.Reason != entity.ExplainReasonRuleMatch {
			t.Errorf("expected rule_match, got %s", result.Explainability.Reason)
		}
		if result.Explainability.RuleID == nil || *result.Explainability.RuleID != exact.ID {
			t.Errorf("expected the exact rule to win, got %v", result.Explainability.RuleID)
		}
		if result.Explainability.Confidence != ConfidenceExact {
			t.Errorf("expected confidence %v, got %v", ConfidenceExact, result.Explainability.Confidence)
		}
	})

	t.Run("confidence follows the match type", func(t *testing.T) {
		tests := []struct {
			name       string
			conditions entity.RuleConditions
			matchType  entity.MatchType
			confidence float64
		}{
			{"exact", entity.RuleConditions{MerchantExact: strptr("STARBUCKS")}, entity.MatchTypeExact, 1.0},
			{"contains", entity.RuleConditions{MerchantContains: strptr("STAR")}, entity.MatchTypeContains, 0.8},
			{"regex", entity.RuleConditions{MerchantRegex: strptr("^STAR.*")}, entity.MatchTypeRegex, 0.6},
			{"description", entity.RuleConditions{DescriptionContains: strptr("STARBUCKS")}, entity.MatchTypeDescription, 0.5},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rule := engineRule(tt.name, 500, tt.conditions, "cat-coffee")
				result := CategorizeWithRules(engineTx("STARBUCKS"), []*entity.Rule{rule})
				if result.CategoryID == nil {
					t.Fatal("expected a match")
				}
				if result.Explainability.MatchType == nil || *result.Explainability.MatchType != tt.matchType {
					t.Errorf("expected match type %s, got %v", tt.matchType, result.Explainability.MatchType)
				}
				if result.Explainability.Confidence != tt.confidence {
					t.Errorf("expected confidence %v, got %v", tt.confidence, result.Explainability.Confidence)
				}
			})
		}
	})

	t.Run("equal priorities break ties by creation time then id", func(t *testing.T) {
		older := engineRule("older", 500, entity.RuleConditions{MerchantContains: strptr("MART")}, "cat-older")
		older.ID = "rule-b"
		older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := engineRule("newer", 500, entity.RuleConditions{MerchantContains: strptr("MART")}, "cat-newer")
		newer.ID = "rule-a"
		newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		for _, rules := range [][]*entity.Rule{{older, newer}, {newer, older}} {
			result := CategorizeWithRules(engineTx("GROCERY MART"), rules)
			if result.CategoryID == nil || *result.CategoryID != "cat-older" {
				t.Fatalf("expected the older rule regardless of input order, got %v", result.CategoryID)
			}
		}

		// Same creation instant: the lower id wins.
		newer.CreatedAt = older.CreatedAt
		result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{older, newer})
		if result.CategoryID == nil || *result.CategoryID != "cat-newer" {
			t.Fatalf("expected rule-a on an exact tie, got %v", result.CategoryID)
		}
	})

	t.Run("disabled rules are skipped", func(t *testing.T) {
		disabled := engineRule("disabled", 900, entity.RuleConditions{MerchantContains: strptr("MART")}, "cat-disabled")
		disabled.Enabled = false
		fallback := engineRule("fallback", 500, entity.RuleConditions{MerchantContains: strptr("MART")}, "cat-fallback")

		result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{disabled, fallback})
		if result.CategoryID == nil || *result.CategoryID != "cat-fallback" {
			t.Fatalf("expected the enabled rule, got %v", result.CategoryID)
		}
	})

	t.Run("an invalid regex is skipped at evaluation", func(t *testing.T) {
		broken := engineRule("broken", 900, entity.RuleConditions{MerchantRegex: strptr("([unclosed")}, "cat-broken")
		fallback := engineRule("fallback", 500, entity.RuleConditions{MerchantContains: strptr("MART")}, "cat-fallback")

		result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{broken, fallback})
		if result.CategoryID == nil || *result.CategoryID != "cat-fallback" {
			t.Fatalf("expected the valid rule, got %v", result.CategoryID)
		}
	})

	t.Run("numeric and account gates bound a textual match", func(t *testing.T) {
		rule := engineRule("big spend", 500, entity.RuleConditions{
			MerchantContains: strptr("MART"),
			AmountMin:        int64ptr(-5000),
			AmountMax:        int64ptr(-1000),
		}, "cat-groceries")

		if result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{rule}); result.CategoryID == nil {
			t.Error("expected a match inside the amount range")
		}

		outside := engineTx("GROCERY MART")
		outside.Amount = -10000
		if result := CategorizeWithRules(outside, []*entity.Rule{rule}); result.CategoryID != nil {
			t.Errorf("expected no match below the amount range, got %v", *result.CategoryID)
		}

		scoped := engineRule("scoped", 500, entity.RuleConditions{
			MerchantContains: strptr("MART"),
			AccountID:        strptr("acct-other"),
		}, "cat-groceries")
		if result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{scoped}); result.CategoryID != nil {
			t.Errorf("expected no match for a foreign account, got %v", *result.CategoryID)
		}
	})

	t.Run("a rule without textual conditions never matches", func(t *testing.T) {
		rule := engineRule("amount only", 500, entity.RuleConditions{AmountMin: int64ptr(-5000)}, "cat-any")
		if result := CategorizeWithRules(engineTx("GROCERY MART"), []*entity.Rule{rule}); result.CategoryID != nil {
			t.Errorf("expected no match, got %v", *result.CategoryID)
		}
	})

	t.Run("no match yields a zero-confidence verdict", func(t *testing.T) {
		result := CategorizeWithRules(engineTx("GROCERY MART"), nil)
		if result.CategoryID != nil {
			t.Errorf("expected no category, got %v", *result.CategoryID)
		}
		if result.Explainability.Reason != entity.ExplainReasonNoMatch {
			t.Errorf("expected no_match, got %s", result.Explainability.Reason)
		}
		if result.Explainability.Confidence != 0 {
			t.Errorf("expected zero confidence, got %v", result.Explainability.Confidence)
		}
	})
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{"valid pattern", "^STAR.*BUCKS$", nil},
		{"too long", strings.Repeat("a", entity.MaxRegexPatternLength+1), domainerror.ErrPatternTooLong},
		{"nested star quantifier", "(.*)+", domainerror.ErrUnsafePattern},
		{"nested plus quantifier", "(.+)*", domainerror.ErrUnsafePattern},
		{"uncompilable", "([unclosed", domainerror.ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
