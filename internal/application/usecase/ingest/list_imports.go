package ingest

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// DefaultImportListLimit bounds the import history listing.
const DefaultImportListLimit = 50

// ListImportsUseCase returns the owner's import history, newest first.
type ListImportsUseCase struct {
	importRepo adapter.ImportRepository
}

// NewListImportsUseCase creates a ListImportsUseCase instance.
func NewListImportsUseCase(importRepo adapter.ImportRepository) *ListImportsUseCase {
	return &ListImportsUseCase{importRepo: importRepo}
}

// Execute lists the owner's imports.
func (uc *ListImportsUseCase) Execute(ctx context.Context, ownerID string, limit int) ([]*entity.Import, error) {
	if limit <= 0 || limit > DefaultImportListLimit {
		limit = DefaultImportListLimit
	}
	return uc.importRepo.FindByOwner(ctx, ownerID, limit)
}
