package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{db: db}
}

// FindByID retrieves a category visible to the owner: default or owned.
func (r *categoryRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Category, error) {
	var m model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND (is_default = ? OR owner_id = ?)", id, true, ownerID).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, translateError(result.Error)
	}
	return m.ToEntity(), nil
}

// FindVisible retrieves default categories plus the owner's own,
// ordered by sort order then name.
func (r *categoryRepository) FindVisible(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	var rows []model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("is_default = ? OR owner_id = ?", true, ownerID).
		Order("sort_order ASC, name ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	categories := make([]*entity.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].ToEntity()
	}
	return categories, nil
}

// Create creates a user-owned category.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Create(model.CategoryFromEntity(category))
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}
