// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CategoryRepository defines persistence operations for categories.
// Reads always cover the default set plus the owner's own categories.
type CategoryRepository interface {
	// FindByID retrieves a category visible to the owner (default or owned).
	FindByID(ctx context.Context, ownerID, id string) (*entity.Category, error)

	// FindVisible retrieves default categories plus the owner's,
	// ordered by sort order then name.
	FindVisible(ctx context.Context, ownerID string) ([]*entity.Category, error)

	// Create creates a user-owned category.
	Create(ctx context.Context, category *entity.Category) error
}
