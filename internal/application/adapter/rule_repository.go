// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// RulePriorityAssignment pairs a rule id with its new priority for reordering.
type RulePriorityAssignment struct {
	ID       string
	Priority int
}

// RuleRepository defines persistence operations for categorization rules.
type RuleRepository interface {
	// Create creates a new rule.
	Create(ctx context.Context, rule *entity.Rule) error

	// FindByID retrieves a rule by id within the owner scope.
	FindByID(ctx context.Context, ownerID, id string) (*entity.Rule, error)

	// FindByOwner retrieves all of the owner's rules, priority descending.
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.Rule, error)

	// FindEnabledByOwner retrieves the owner's enabled rules, priority
	// descending. This is the rule engine's input set.
	FindEnabledByOwner(ctx context.Context, ownerID string) ([]*entity.Rule, error)

	// CountByOwner counts the owner's rules for the per-owner cap.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// Update persists rule field changes.
	Update(ctx context.Context, rule *entity.Rule) error

	// Delete removes a rule. Existing transactions are untouched.
	Delete(ctx context.Context, ownerID, id string) error

	// UpdatePriorities assigns priorities in a single batch. Ids absent
	// from the batch are left untouched.
	UpdatePriorities(ctx context.Context, ownerID string, assignments []RulePriorityAssignment) error

	// IncrementMatchStats advances matchCount and lastMatchedAt with a
	// single atomic update. Best-effort: callers fire and forget.
	IncrementMatchStats(ctx context.Context, ownerID, id string) error

	// ExistsMerchantRule reports whether any rule for the owner already
	// targets the merchant via merchantExact or merchantContains
	// (case-insensitive equality).
	ExistsMerchantRule(ctx context.Context, ownerID, merchantNormalized string) (bool, error)
}

// DismissedSuggestionRepository records suggestions the user declined so
// they are never offered again.
type DismissedSuggestionRepository interface {
	// Create records a dismissal.
	Create(ctx context.Context, dismissal *entity.DismissedSuggestion) error

	// Exists reports whether (merchantNormalized, categoryID) was
	// already dismissed by the owner.
	Exists(ctx context.Context, ownerID, merchantNormalized, categoryID string) (bool, error)
}
