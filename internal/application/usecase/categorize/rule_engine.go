// Package categorize contains the rule engine and the categorization
// orchestrator that combines it with the LLM classifier.
package categorize

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// Default confidences per textual match type.
const (
	ConfidenceExact       = 1.0
	ConfidenceContains    = 0.8
	ConfidenceRegex       = 0.6
	ConfidenceDescription = 0.5
)

// redosShapes is the catalog of catastrophic-backtracking patterns
// rejected at rule-create time.
var redosShapes = []string{"(.*)+", "(.+)+", "([^]+)+", "(.*)*", "(.+)*"}

// RuleResult is the rule engine's verdict for one transaction.
type RuleResult struct {
	CategoryID     *string
	Tags           []string
	Explainability entity.Explainability
}

// CategorizeWithRules evaluates the owner's rules against one
// transaction. Rules are filtered to enabled, ordered by priority
// descending (ties broken by createdAt ascending then id, stable across
// the same input set), and the first match wins. A transaction that
// matches nothing gets a no_match explainability with zero confidence.
func CategorizeWithRules(tx *entity.Transaction, rules []*entity.Rule) RuleResult {
	ordered := make([]*entity.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, rule := range ordered {
		match, ok := matchRule(tx, rule.Conditions)
		if !ok {
			continue
		}

		ruleID := rule.ID
		ruleName := rule.Name
		matchType := match.matchType
		matchedValue := match.matchedValue
		matchedPattern := match.matchedPattern
		categoryID := rule.Action.CategoryID

		return RuleResult{
			CategoryID: &categoryID,
			Tags:       rule.Action.AddTags,
			Explainability: entity.Explainability{
				Reason:         entity.ExplainReasonRuleMatch,
				RuleID:         &ruleID,
				RuleName:       &ruleName,
				MatchType:      &matchType,
				MatchedValue:   &matchedValue,
				MatchedPattern: &matchedPattern,
				Confidence:     confidenceFor(matchType),
				Timestamp:      time.Now().UTC(),
			},
		}
	}

	return RuleResult{
		Explainability: entity.Explainability{
			Reason:     entity.ExplainReasonNoMatch,
			Confidence: 0,
			Timestamp:  time.Now().UTC(),
		},
	}
}

// ruleMatch records which textual condition produced the match.
type ruleMatch struct {
	matchType      entity.MatchType
	matchedValue   string
	matchedPattern string
}

// matchRule applies the conditions in fixed order, short-circuiting on
// the first failure. Every set condition must hold; the numeric and
// account gates never match on their own, so a rule without a textual
// condition matches nothing.
func matchRule(tx *entity.Transaction, c entity.RuleConditions) (ruleMatch, bool) {
	if c.AccountID != nil && *c.AccountID != tx.AccountID {
		return ruleMatch{}, false
	}
	if c.AmountMin != nil && tx.Amount < *c.AmountMin {
		return ruleMatch{}, false
	}
	if c.AmountMax != nil && tx.Amount > *c.AmountMax {
		return ruleMatch{}, false
	}
	if !c.HasTextual() {
		return ruleMatch{}, false
	}

	merchant := strings.ToLower(tx.MerchantNormalized)
	var match *ruleMatch

	if c.MerchantExact != nil {
		if merchant != strings.ToLower(*c.MerchantExact) {
			return ruleMatch{}, false
		}
		match = &ruleMatch{matchType: entity.MatchTypeExact, matchedValue: tx.MerchantNormalized, matchedPattern: *c.MerchantExact}
	}
	if c.MerchantContains != nil {
		if !strings.Contains(merchant, strings.ToLower(*c.MerchantContains)) {
			return ruleMatch{}, false
		}
		if match == nil {
			match = &ruleMatch{matchType: entity.MatchTypeContains, matchedValue: tx.MerchantNormalized, matchedPattern: *c.MerchantContains}
		}
	}
	if c.MerchantRegex != nil {
		re, err := regexp.Compile("(?i)" + *c.MerchantRegex)
		if err != nil {
			slog.Warn("Skipping rule with invalid regex", "pattern", *c.MerchantRegex, "error", err)
			return ruleMatch{}, false
		}
		if !re.MatchString(tx.MerchantNormalized) {
			return ruleMatch{}, false
		}
		if match == nil {
			match = &ruleMatch{matchType: entity.MatchTypeRegex, matchedValue: tx.MerchantNormalized, matchedPattern: *c.MerchantRegex}
		}
	}
	if c.DescriptionContains != nil {
		if !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(*c.DescriptionContains)) {
			return ruleMatch{}, false
		}
		if match == nil {
			match = &ruleMatch{matchType: entity.MatchTypeDescription, matchedValue: tx.Description, matchedPattern: *c.DescriptionContains}
		}
	}

	if match == nil {
		return ruleMatch{}, false
	}
	return *match, true
}

func confidenceFor(t entity.MatchType) float64 {
	switch t {
	case entity.MatchTypeExact:
		return ConfidenceExact
	case entity.MatchTypeContains:
		return ConfidenceContains
	case entity.MatchTypeRegex:
		return ConfidenceRegex
	default:
		return ConfidenceDescription
	}
}

// ValidatePattern enforces the create-time regex safety gate: length
// bound, the catastrophic-backtracking catalog, and compilability.
func ValidatePattern(pattern string) error {
	if len(pattern) > entity.MaxRegexPatternLength {
		return domainerror.ErrPatternTooLong
	}
	for _, shape := range redosShapes {
		if strings.Contains(pattern, shape) {
			return domainerror.ErrUnsafePattern
		}
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return domainerror.ErrInvalidPattern
	}
	return nil
}
