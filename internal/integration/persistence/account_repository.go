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

// accountRepository implements the adapter.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance.
func NewAccountRepository(db *gorm.DB) adapter.AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Create(model.AccountFromEntity(account))
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}

// FindByID retrieves an account by its ID within the owner scope.
func (r *accountRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Account, error) {
	var m model.AccountModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountNotFound
		}
		return nil, translateError(result.Error)
	}
	return m.ToEntity(), nil
}

// FindByOwner retrieves all accounts for an owner, name ascending.
func (r *accountRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Account, error) {
	var rows []model.AccountModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	accounts := make([]*entity.Account, len(rows))
	for i := range rows {
		accounts[i] = rows[i].ToEntity()
	}
	return accounts, nil
}

// Update persists account field changes.
func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Model(&model.AccountModel{}).
		Where("owner_id = ? AND id = ?", account.OwnerID, account.ID).
		Updates(map[string]any{
			"name":        account.Name,
			"type":        string(account.Type),
			"institution": account.Institution,
			"last_four":   account.LastFour,
			"updated_at":  account.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account.
func (r *accountRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountNotFound
	}
	return nil
}
