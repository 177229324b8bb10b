// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// ImportRepository defines persistence operations for import records.
type ImportRepository interface {
	// Create creates an import record (normally in pending).
	Create(ctx context.Context, record *entity.Import) error

	// FindByID retrieves an import by id within the owner scope.
	FindByID(ctx context.Context, ownerID, id string) (*entity.Import, error)

	// FindByOwner retrieves the owner's imports, newest first.
	FindByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Import, error)

	// SetProcessing transitions pending -> processing.
	SetProcessing(ctx context.Context, ownerID, id string) error

	// Complete transitions processing -> completed with the final count.
	// Fails once the record is terminal.
	Complete(ctx context.Context, ownerID, id string, transactionCount int) error

	// Fail transitions the record to failed with an error message.
	// Fails once the record is terminal.
	Fail(ctx context.Context, ownerID, id string, message string) error
}
