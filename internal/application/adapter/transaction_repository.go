// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
// All bounds are inclusive. Split parents are always excluded; split
// children remain visible.
type TransactionFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryID    *string
	AccountID     *string
	ImportID      *string
	Merchant      string // case-insensitive substring on merchantNormalized
	MinAmount     *int64
	MaxAmount     *int64
	Tags          []string
	Uncategorized bool
}

// TransactionPage is one cursor-delimited page of transactions, newest first.
type TransactionPage struct {
	Transactions []*entity.Transaction
	NextCursor   *string
	HasMore      bool
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	// Create persists one transaction with its categorization and
	// explainability. A duplicate (ownerID, txKey) fails with a
	// conflict error.
	Create(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a transaction by id within the owner scope.
	FindByID(ctx context.Context, ownerID, id string) (*entity.Transaction, error)

	// FindByFilter retrieves a page of non-parent transactions matching
	// the filter, ordered postedAt descending. A malformed cursor fails
	// with ErrInvalidCursor.
	FindByFilter(ctx context.Context, ownerID string, filter TransactionFilter, cursor string, limit int) (*TransactionPage, error)

	// FindByRange retrieves every non-parent transaction in
	// [start, end], ordered postedAt ascending then id, for the
	// aggregation read path.
	FindByRange(ctx context.Context, ownerID string, start, end time.Time) ([]*entity.Transaction, error)

	// ExistingTxKeys returns the subset of keys that already exist for
	// the owner.
	ExistingTxKeys(ctx context.Context, ownerID string, keys []string) (map[string]bool, error)

	// Update persists the mutable fields of a transaction.
	Update(ctx context.Context, tx *entity.Transaction) error

	// UpdateCategorization atomically replaces categoryId,
	// explainability and autoCategory. Used by recategorization.
	UpdateCategorization(ctx context.Context, ownerID, id string, categoryID *string, explainability entity.Explainability, autoCategory *entity.AutoCategory) error

	// CreateSplit flips the parent's split flag and inserts the
	// children inside one store transaction. On failure no partial
	// state is visible.
	CreateSplit(ctx context.Context, ownerID, parentID string, children []*entity.Transaction) error

	// Unsplit deletes all children of the parent and clears its split
	// flag inside one store transaction. Returns the deleted count.
	Unsplit(ctx context.Context, ownerID, parentID string) (int, error)

	// FindSplitChildren retrieves the children of a split parent.
	FindSplitChildren(ctx context.Context, ownerID, parentID string) ([]*entity.Transaction, error)
}
