// Package adapter defines interfaces that are implemented in the integration layer.
// Every repository operation is owner-scoped: implementations inject the
// owner predicate on every query and report cross-owner access as not found.
package adapter

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create creates a new account.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by id within the owner scope.
	FindByID(ctx context.Context, ownerID, id string) (*entity.Account, error)

	// FindByOwner retrieves all accounts for an owner, name ascending.
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.Account, error)

	// Update persists user-initiated field changes.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes an account. The caller is responsible for ensuring
	// no imports still reference it.
	Delete(ctx context.Context, ownerID, id string) error
}
