// Package account contains the account management use cases.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Name        string
	Type        entity.AccountType
	Institution string
	LastFour    string
}

// UpdateInput carries partial account changes. Nil fields are left as is.
type UpdateInput struct {
	Name        *string
	Type        *entity.AccountType
	Institution *string
	LastFour    *string
}

// UseCase bundles the account operations behind one repository.
type UseCase struct {
	accountRepo adapter.AccountRepository
}

// NewUseCase creates an account UseCase instance.
func NewUseCase(accountRepo adapter.AccountRepository) *UseCase {
	return &UseCase{accountRepo: accountRepo}
}

// Create validates and persists a new account for the owner.
func (uc *UseCase) Create(ctx context.Context, ownerID string, in CreateInput) (*entity.Account, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domainerror.ErrAccountNameRequired
	}
	if !entity.ValidAccountType(in.Type) {
		return nil, domainerror.ErrInvalidAccountType
	}

	account := entity.NewAccount(ownerID, in.Name, in.Type, in.Institution, in.LastFour)
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// List returns the owner's accounts, name ascending.
func (uc *UseCase) List(ctx context.Context, ownerID string) ([]*entity.Account, error) {
	return uc.accountRepo.FindByOwner(ctx, ownerID)
}

// Get retrieves one account within the owner scope.
func (uc *UseCase) Get(ctx context.Context, ownerID, id string) (*entity.Account, error) {
	return uc.accountRepo.FindByID(ctx, ownerID, id)
}

// Update applies partial changes to an account. OwnerID never changes.
func (uc *UseCase) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*entity.Account, error) {
	account, err := uc.accountRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domainerror.ErrAccountNameRequired
		}
		account.Name = *in.Name
	}
	if in.Type != nil {
		if !entity.ValidAccountType(*in.Type) {
			return nil, domainerror.ErrInvalidAccountType
		}
		account.Type = *in.Type
	}
	if in.Institution != nil {
		account.Institution = *in.Institution
	}
	if in.LastFour != nil {
		account.LastFour = *in.LastFour
	}

	account.UpdatedAt = time.Now().UTC()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account.
func (uc *UseCase) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uc.accountRepo.FindByID(ctx, ownerID, id); err != nil {
		return err
	}
	return uc.accountRepo.Delete(ctx, ownerID, id)
}
