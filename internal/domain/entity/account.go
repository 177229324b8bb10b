// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountType represents the kind of financial account.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// ValidAccountType reports whether t is a member of the closed account type set.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeInvestment, AccountTypeOther:
		return true
	}
	return false
}

// Account represents a financial account owned by exactly one user.
// OwnerID is immutable after creation.
type Account struct {
	ID          string
	OwnerID     string
	Name        string
	Type        AccountType
	Institution string
	LastFour    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAccount creates a new Account entity.
func NewAccount(ownerID, name string, accountType AccountType, institution, lastFour string) *Account {
	now := time.Now().UTC()

	return &Account{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Type:        accountType,
		Institution: institution,
		LastFour:    lastFour,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
