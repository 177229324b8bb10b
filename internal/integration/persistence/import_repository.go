package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// importRepository implements the adapter.ImportRepository interface.
// Status transitions are guarded in SQL so a terminal record can never
// move again, no matter how requests race.
type importRepository struct {
	db *gorm.DB
}

// NewImportRepository creates a new import repository instance.
func NewImportRepository(db *gorm.DB) adapter.ImportRepository {
	return &importRepository{db: db}
}

// Create creates an import record.
func (r *importRepository) Create(ctx context.Context, record *entity.Import) error {
	result := r.db.WithContext(ctx).Create(model.ImportFromEntity(record))
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}

// FindByID retrieves an import by its ID within the owner scope.
func (r *importRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Import, error) {
	var m model.ImportModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrImportNotFound
		}
		return nil, translateError(result.Error)
	}
	return m.ToEntity(), nil
}

// FindByOwner retrieves the owner's imports, newest first.
func (r *importRepository) FindByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Import, error) {
	var rows []model.ImportModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	records := make([]*entity.Import, len(rows))
	for i := range rows {
		records[i] = rows[i].ToEntity()
	}
	return records, nil
}

// SetProcessing transitions pending -> processing.
func (r *importRepository) SetProcessing(ctx context.Context, ownerID, id string) error {
	return r.transition(ctx, ownerID, id, []string{string(entity.ImportStatusPending)}, map[string]any{
		"status": string(entity.ImportStatusProcessing),
	})
}

// Complete transitions processing -> completed with the final count.
func (r *importRepository) Complete(ctx context.Context, ownerID, id string, transactionCount int) error {
	return r.transition(ctx, ownerID, id, []string{string(entity.ImportStatusProcessing)}, map[string]any{
		"status":            string(entity.ImportStatusCompleted),
		"transaction_count": transactionCount,
		"completed_at":      time.Now().UTC(),
	})
}

// Fail transitions a non-terminal record to failed.
func (r *importRepository) Fail(ctx context.Context, ownerID, id string, message string) error {
	return r.transition(ctx, ownerID, id, []string{
		string(entity.ImportStatusPending),
		string(entity.ImportStatusProcessing),
	}, map[string]any{
		"status":        string(entity.ImportStatusFailed),
		"error_message": message,
		"completed_at":  time.Now().UTC(),
	})
}

// transition applies updates only when the record is in one of the
// allowed states. Zero rows affected means the record is either gone or
// already terminal.
func (r *importRepository) transition(ctx context.Context, ownerID, id string, from []string, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&model.ImportModel{}).
		Where("owner_id = ? AND id = ? AND status IN ?", ownerID, id, from).
		Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, ownerID, id); err != nil {
			return err
		}
		return domainerror.NewImportError(domainerror.ErrCodeImportTerminal, "import is already in a terminal state", domainerror.ErrImportTerminal)
	}
	return nil
}
