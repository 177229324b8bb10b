package dto

import (
	"time"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Type        string `json:"type" binding:"required"`
	Institution string `json:"institution,omitempty" binding:"omitempty,max=255"`
	LastFour    string `json:"lastFour,omitempty" binding:"omitempty,max=4"`
}

// UpdateAccountRequest represents the request body for account update.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Type        *string `json:"type,omitempty"`
	Institution *string `json:"institution,omitempty" binding:"omitempty,max=255"`
	LastFour    *string `json:"lastFour,omitempty" binding:"omitempty,max=4"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Institution string    `json:"institution,omitempty"`
	LastFour    string    `json:"lastFour,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToAccountResponse converts an Account entity to an AccountResponse DTO.
func ToAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        string(a.Type),
		Institution: a.Institution,
		LastFour:    a.LastFour,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToAccountListResponse converts a slice of Account entities.
func ToAccountListResponse(accounts []*entity.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = ToAccountResponse(a)
	}
	return out
}
