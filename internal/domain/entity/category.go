// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category represents a spending category. Default categories have no
// owner and are read-only for every user; user categories carry the
// owner that created them.
type Category struct {
	ID        string
	OwnerID   *string // nil for default categories
	Name      string
	Icon      string
	Color     string
	IsDefault bool
	ParentID  *string
	SortOrder int
	IsHidden  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new user-owned Category entity.
func NewCategory(ownerID, name, icon, color string, sortOrder int) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.NewString(),
		OwnerID:   &ownerID,
		Name:      name,
		Icon:      icon,
		Color:     color,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AccessibleBy reports whether the category is visible to the given
// owner: default categories are visible to everyone, user categories
// only to their owner.
func (c *Category) AccessibleBy(ownerID string) bool {
	if c.IsDefault {
		return true
	}
	return c.OwnerID != nil && *c.OwnerID == ownerID
}
