// Package category contains the category read and creation use cases.
package category

import (
	"context"
	"strings"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// CreateInput carries the fields for a new user-owned category.
type CreateInput struct {
	Name      string
	Color     string
	Icon      string
	ParentID  *string
	SortOrder int
}

// UseCase bundles the category operations behind one repository.
type UseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewUseCase creates a category UseCase instance.
func NewUseCase(categoryRepo adapter.CategoryRepository) *UseCase {
	return &UseCase{categoryRepo: categoryRepo}
}

// List returns the default categories plus the owner's own.
func (uc *UseCase) List(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	return uc.categoryRepo.FindVisible(ctx, ownerID)
}

// Get retrieves one visible category.
func (uc *UseCase) Get(ctx context.Context, ownerID, id string) (*entity.Category, error) {
	return uc.categoryRepo.FindByID(ctx, ownerID, id)
}

// Create validates and persists a user-owned category.
func (uc *UseCase) Create(ctx context.Context, ownerID string, in CreateInput) (*entity.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domainerror.ErrCategoryNameRequired
	}
	if in.ParentID != nil {
		if _, err := uc.categoryRepo.FindByID(ctx, ownerID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	icon := in.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}
	color := in.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}

	category := entity.NewCategory(ownerID, in.Name, icon, color, in.SortOrder)
	category.ParentID = in.ParentID
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
