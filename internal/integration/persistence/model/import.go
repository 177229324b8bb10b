package model

import (
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// ImportModel represents the imports table in the database.
type ImportModel struct {
	ID               string     `gorm:"type:uuid;primaryKey"`
	OwnerID          string     `gorm:"type:text;not null;index"`
	AccountID        string     `gorm:"type:uuid;not null;index"`
	Filename         string     `gorm:"type:varchar(255);not null"`
	FileType         string     `gorm:"type:varchar(10);not null"`
	Status           string     `gorm:"type:varchar(20);not null;index"`
	TransactionCount int        `gorm:"default:0"`
	ErrorMessage     string     `gorm:"type:text"`
	CreatedAt        time.Time  `gorm:"not null"`
	CompletedAt      *time.Time `gorm:"type:timestamp"`
}

// TableName returns the table name for the ImportModel.
func (ImportModel) TableName() string {
	return "imports"
}

// ToEntity converts an ImportModel to a domain Import entity.
func (m *ImportModel) ToEntity() *entity.Import {
	return &entity.Import{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		AccountID:        m.AccountID,
		Filename:         m.Filename,
		FileType:         entity.FileType(m.FileType),
		Status:           entity.ImportStatus(m.Status),
		TransactionCount: m.TransactionCount,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
		CompletedAt:      m.CompletedAt,
	}
}

// ImportFromEntity converts a domain Import entity to an ImportModel.
func ImportFromEntity(e *entity.Import) *ImportModel {
	return &ImportModel{
		ID:               e.ID,
		OwnerID:          e.OwnerID,
		AccountID:        e.AccountID,
		Filename:         e.Filename,
		FileType:         string(e.FileType),
		Status:           string(e.Status),
		TransactionCount: e.TransactionCount,
		ErrorMessage:     e.ErrorMessage,
		CreatedAt:        e.CreatedAt,
		CompletedAt:      e.CompletedAt,
	}
}
