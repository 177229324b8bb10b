package model

import (
	"encoding/json"
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// RuleModel represents the rules table in the database. Conditions and
// the action are stored as jsonb documents.
type RuleModel struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	OwnerID       string     `gorm:"type:text;not null;index"`
	Name          string     `gorm:"type:varchar(255);not null"`
	Enabled       bool       `gorm:"default:true"`
	Priority      int        `gorm:"not null;index"`
	Conditions    []byte     `gorm:"type:jsonb;not null"`
	Action        []byte     `gorm:"type:jsonb;not null"`
	Source        string     `gorm:"type:varchar(20);not null"`
	MatchCount    int64      `gorm:"default:0"`
	LastMatchedAt *time.Time `gorm:"type:timestamp"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the RuleModel.
func (RuleModel) TableName() string {
	return "rules"
}

// ToEntity converts a RuleModel to a domain Rule entity.
func (m *RuleModel) ToEntity() *entity.Rule {
	rule := &entity.Rule{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Enabled:       m.Enabled,
		Priority:      m.Priority,
		Source:        entity.RuleSource(m.Source),
		MatchCount:    m.MatchCount,
		LastMatchedAt: m.LastMatchedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.Conditions) > 0 {
		_ = json.Unmarshal(m.Conditions, &rule.Conditions)
	}
	if len(m.Action) > 0 {
		_ = json.Unmarshal(m.Action, &rule.Action)
	}
	return rule
}

// RuleFromEntity converts a domain Rule entity to a RuleModel.
func RuleFromEntity(e *entity.Rule) *RuleModel {
	m := &RuleModel{
		ID:            e.ID,
		OwnerID:       e.OwnerID,
		Name:          e.Name,
		Enabled:       e.Enabled,
		Priority:      e.Priority,
		Source:        string(e.Source),
		MatchCount:    e.MatchCount,
		LastMatchedAt: e.LastMatchedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	m.Conditions, _ = json.Marshal(e.Conditions)
	m.Action, _ = json.Marshal(e.Action)
	return m
}

// DismissedSuggestionModel represents the dismissed_suggestions table.
// The (owner_id, merchant_normalized, category_id) triple is unique.
type DismissedSuggestionModel struct {
	ID                 string    `gorm:"type:uuid;primaryKey"`
	OwnerID            string    `gorm:"type:text;not null;uniqueIndex:idx_dismissed_owner_merchant_category"`
	MerchantNormalized string    `gorm:"type:text;not null;uniqueIndex:idx_dismissed_owner_merchant_category"`
	CategoryID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_dismissed_owner_merchant_category"`
	DismissedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the DismissedSuggestionModel.
func (DismissedSuggestionModel) TableName() string {
	return "dismissed_suggestions"
}

// ToEntity converts a DismissedSuggestionModel to a domain entity.
func (m *DismissedSuggestionModel) ToEntity() *entity.DismissedSuggestion {
	return &entity.DismissedSuggestion{
		ID:                 m.ID,
		OwnerID:            m.OwnerID,
		MerchantNormalized: m.MerchantNormalized,
		CategoryID:         m.CategoryID,
		DismissedAt:        m.DismissedAt,
	}
}

// DismissedSuggestionFromEntity converts a domain entity to its model.
func DismissedSuggestionFromEntity(e *entity.DismissedSuggestion) *DismissedSuggestionModel {
	return &DismissedSuggestionModel{
		ID:                 e.ID,
		OwnerID:            e.OwnerID,
		MerchantNormalized: e.MerchantNormalized,
		CategoryID:         e.CategoryID,
		DismissedAt:        e.DismissedAt,
	}
}
