// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	OwnerID     string    `gorm:"type:text;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Institution string    `gorm:"type:varchar(255)"`
	LastFour    string    `gorm:"type:varchar(4)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Type:        entity.AccountType(m.Type),
		Institution: m.Institution,
		LastFour:    m.LastFour,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AccountFromEntity converts a domain Account entity to an AccountModel.
func AccountFromEntity(e *entity.Account) *AccountModel {
	return &AccountModel{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Name:        e.Name,
		Type:        string(e.Type),
		Institution: e.Institution,
		LastFour:    e.LastFour,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
