package ingest

import (
	"context"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// GetImportUseCase retrieves one import record within the owner scope.
type GetImportUseCase struct {
	importRepo adapter.ImportRepository
}

// NewGetImportUseCase creates a GetImportUseCase instance.
func NewGetImportUseCase(importRepo adapter.ImportRepository) *GetImportUseCase {
	return &GetImportUseCase{importRepo: importRepo}
}

// Execute retrieves the import by id.
func (uc *GetImportUseCase) Execute(ctx context.Context, ownerID, id string) (*entity.Import, error) {
	return uc.importRepo.FindByID(ctx, ownerID, id)
}
