package model

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// Explainability, autoCategory and receipt line items are stored as
// jsonb documents; tags as a native text array. The (owner_id, tx_key)
// pair is unique and backs deduplication.
type TransactionModel struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	OwnerID            string         `gorm:"type:text;not null;index;uniqueIndex:idx_transactions_owner_tx_key"`
	AccountID          string         `gorm:"type:uuid;not null;index"`
	ImportID           string         `gorm:"type:uuid;index"`
	PostedAt           time.Time      `gorm:"type:date;not null;index"`
	Amount             int64          `gorm:"not null"`
	Description        string         `gorm:"type:text;not null"`
	MerchantRaw        string         `gorm:"type:text"`
	MerchantNormalized string         `gorm:"type:text;index"`
	CategoryID         *string        `gorm:"type:uuid;index"`
	AutoCategory       []byte         `gorm:"type:jsonb"`
	ManualOverride     bool           `gorm:"default:false"`
	Explainability     []byte         `gorm:"type:jsonb;not null"`
	Notes              string         `gorm:"type:text"`
	Tags               pq.StringArray `gorm:"type:text[]"`
	CorrectedAt        *time.Time     `gorm:"type:timestamp"`
	IsSplitParent      bool           `gorm:"default:false;index"`
	SplitParentID      *string        `gorm:"type:uuid;index"`
	ReceiptLineItems   []byte         `gorm:"type:jsonb"`
	TxKey              string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_transactions_owner_tx_key"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	tx := &entity.Transaction{
		ID:                 m.ID,
		OwnerID:            m.OwnerID,
		AccountID:          m.AccountID,
		ImportID:           m.ImportID,
		PostedAt:           m.PostedAt,
		Amount:             m.Amount,
		Description:        m.Description,
		MerchantRaw:        m.MerchantRaw,
		MerchantNormalized: m.MerchantNormalized,
		CategoryID:         m.CategoryID,
		ManualOverride:     m.ManualOverride,
		Notes:              m.Notes,
		Tags:               m.Tags,
		CorrectedAt:        m.CorrectedAt,
		IsSplitParent:      m.IsSplitParent,
		SplitParentID:      m.SplitParentID,
		TxKey:              m.TxKey,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	if len(m.Explainability) > 0 {
		_ = json.Unmarshal(m.Explainability, &tx.Explainability)
	}
	if len(m.AutoCategory) > 0 {
		var auto entity.AutoCategory
		if err := json.Unmarshal(m.AutoCategory, &auto); err == nil {
			tx.AutoCategory = &auto
		}
	}
	if len(m.ReceiptLineItems) > 0 {
		_ = json.Unmarshal(m.ReceiptLineItems, &tx.ReceiptLineItems)
	}

	return tx
}

// TransactionFromEntity converts a domain Transaction entity to a TransactionModel.
func TransactionFromEntity(e *entity.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:                 e.ID,
		OwnerID:            e.OwnerID,
		AccountID:          e.AccountID,
		ImportID:           e.ImportID,
		PostedAt:           e.PostedAt,
		Amount:             e.Amount,
		Description:        e.Description,
		MerchantRaw:        e.MerchantRaw,
		MerchantNormalized: e.MerchantNormalized,
		CategoryID:         e.CategoryID,
		ManualOverride:     e.ManualOverride,
		Notes:              e.Notes,
		Tags:               e.Tags,
		CorrectedAt:        e.CorrectedAt,
		IsSplitParent:      e.IsSplitParent,
		SplitParentID:      e.SplitParentID,
		TxKey:              e.TxKey,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}

	m.Explainability, _ = json.Marshal(e.Explainability)
	if e.AutoCategory != nil {
		m.AutoCategory, _ = json.Marshal(e.AutoCategory)
	}
	if len(e.ReceiptLineItems) > 0 {
		m.ReceiptLineItems, _ = json.Marshal(e.ReceiptLineItems)
	}

	return m
}
