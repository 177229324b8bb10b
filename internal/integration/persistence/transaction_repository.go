package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	result := r.db.WithContext(ctx).Create(model.TransactionFromEntity(tx))
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}

// FindByID retrieves a transaction by its ID within the owner scope.
func (r *transactionRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Transaction, error) {
	var m model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, translateError(result.Error)
	}
	return m.ToEntity(), nil
}

// FindByFilter retrieves a keyset-paginated page of non-parent
// transactions, newest first. Filters run in SQL so a full page stays
// full regardless of how selective the filter is.
func (r *transactionRepository) FindByFilter(ctx context.Context, ownerID string, filter adapter.TransactionFilter, cursor string, limit int) (*adapter.TransactionPage, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("owner_id = ?", ownerID).
		Where("is_split_parent = ?", false)

	query = applyFilter(query, filter)

	if cursor != "" {
		c, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		query = query.Where("(posted_at < ?) OR (posted_at = ? AND id < ?)", c.PostedAt, c.PostedAt, c.ID)
	}

	var rows []model.TransactionModel
	result := query.
		Order("posted_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	page := &adapter.TransactionPage{}
	if len(rows) > limit {
		page.HasMore = true
		rows = rows[:limit]
	}
	page.Transactions = make([]*entity.Transaction, len(rows))
	for i := range rows {
		page.Transactions[i] = rows[i].ToEntity()
	}
	if page.HasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next := encodeCursor(pageCursor{PostedAt: last.PostedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return page, nil
}

func applyFilter(query *gorm.DB, filter adapter.TransactionFilter) *gorm.DB {
	if filter.StartDate != nil {
		query = query.Where("posted_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("posted_at <= ?", *filter.EndDate)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Uncategorized {
		query = query.Where("category_id IS NULL")
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.ImportID != nil {
		query = query.Where("import_id = ?", *filter.ImportID)
	}
	if filter.Merchant != "" {
		query = query.Where("LOWER(merchant_normalized) LIKE ?", "%"+strings.ToLower(filter.Merchant)+"%")
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	if len(filter.Tags) > 0 {
		// Array containment is Postgres-only syntax; the sqlite-backed
		// test database never reaches this branch.
		query = query.Where("tags @> ?", pq.Array(filter.Tags))
	}
	return query
}

// FindByRange retrieves every non-parent transaction in [start, end]
// for the aggregation read path, oldest first.
func (r *transactionRepository) FindByRange(ctx context.Context, ownerID string, start, end time.Time) ([]*entity.Transaction, error) {
	var rows []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_split_parent = ?", ownerID, false).
		Where("posted_at >= ? AND posted_at <= ?", start, end).
		Order("posted_at ASC, id ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	txs := make([]*entity.Transaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].ToEntity()
	}
	return txs, nil
}

// ExistingTxKeys returns the subset of keys already present for the owner.
func (r *transactionRepository) ExistingTxKeys(ctx context.Context, ownerID string, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	var found []string
	result := r.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("owner_id = ? AND tx_key IN ?", ownerID, keys).
		Pluck("tx_key", &found)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	for _, k := range found {
		existing[k] = true
	}
	return existing, nil
}

// Update persists the mutable fields of a transaction.
func (r *transactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	m := model.TransactionFromEntity(tx)
	result := r.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("owner_id = ? AND id = ?", tx.OwnerID, tx.ID).
		Updates(map[string]any{
			"category_id":     m.CategoryID,
			"auto_category":   m.AutoCategory,
			"manual_override": m.ManualOverride,
			"explainability":  m.Explainability,
			"notes":           m.Notes,
			"tags":            m.Tags,
			"corrected_at":    m.CorrectedAt,
			"updated_at":      m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// UpdateCategorization atomically replaces categoryId, explainability
// and autoCategory.
func (r *transactionRepository) UpdateCategorization(ctx context.Context, ownerID, id string, categoryID *string, explainability entity.Explainability, autoCategory *entity.AutoCategory) error {
	tmp := &entity.Transaction{Explainability: explainability, AutoCategory: autoCategory}
	m := model.TransactionFromEntity(tmp)

	result := r.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]any{
			"category_id":    categoryID,
			"explainability": m.Explainability,
			"auto_category":  m.AutoCategory,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// CreateSplit flips the parent's split flag and inserts the children
// inside one store transaction.
func (r *transactionRepository) CreateSplit(ctx context.Context, ownerID, parentID string, children []*entity.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.TransactionModel{}).
			Where("owner_id = ? AND id = ? AND is_split_parent = ?", ownerID, parentID, false).
			Updates(map[string]any{"is_split_parent": true, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}

		for _, child := range children {
			if err := tx.Create(model.TransactionFromEntity(child)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return err
		}
		return translateError(err)
	}
	return nil
}

// Unsplit deletes the children and clears the parent's split flag
// inside one store transaction.
func (r *transactionRepository) Unsplit(ctx context.Context, ownerID, parentID string) (int, error) {
	var deleted int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("owner_id = ? AND split_parent_id = ?", ownerID, parentID).
			Delete(&model.TransactionModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = int(result.RowsAffected)

		parent := tx.Model(&model.TransactionModel{}).
			Where("owner_id = ? AND id = ? AND is_split_parent = ?", ownerID, parentID, true).
			Updates(map[string]any{"is_split_parent": false, "updated_at": time.Now().UTC()})
		if parent.Error != nil {
			return parent.Error
		}
		if parent.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return 0, err
		}
		return 0, translateError(err)
	}
	return deleted, nil
}

// FindSplitChildren retrieves the children of a split parent in
// creation order.
func (r *transactionRepository) FindSplitChildren(ctx context.Context, ownerID, parentID string) ([]*entity.Transaction, error) {
	var rows []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND split_parent_id = ?", ownerID, parentID).
		Order("created_at ASC, tx_key ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	children := make([]*entity.Transaction, len(rows))
	for i := range rows {
		children[i] = rows[i].ToEntity()
	}
	return children, nil
}
