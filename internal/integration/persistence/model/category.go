package model

import (
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
// Default categories have a null owner.
type CategoryModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   *string   `gorm:"type:text;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Icon      string    `gorm:"type:varchar(50)"`
	Color     string    `gorm:"type:varchar(7)"`
	IsDefault bool      `gorm:"default:false"`
	ParentID  *string   `gorm:"type:uuid;index"`
	SortOrder int       `gorm:"default:0"`
	IsHidden  bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Icon:      m.Icon,
		Color:     m.Color,
		IsDefault: m.IsDefault,
		ParentID:  m.ParentID,
		SortOrder: m.SortOrder,
		IsHidden:  m.IsHidden,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CategoryFromEntity converts a domain Category entity to a CategoryModel.
func CategoryFromEntity(e *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Name:      e.Name,
		Icon:      e.Icon,
		Color:     e.Color,
		IsDefault: e.IsDefault,
		ParentID:  e.ParentID,
		SortOrder: e.SortOrder,
		IsHidden:  e.IsHidden,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
