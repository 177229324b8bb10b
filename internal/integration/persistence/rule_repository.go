package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// ruleRepository implements the adapter.RuleRepository interface.
type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new rule repository instance.
func NewRuleRepository(db *gorm.DB) adapter.RuleRepository {
	return &ruleRepository{db: db}
}

// Create creates a new rule in the database.
func (r *ruleRepository) Create(ctx context.Context, rule *entity.Rule) error {
	result := r.db.WithContext(ctx).Create(model.RuleFromEntity(rule))
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}

// FindByID retrieves a rule by its ID within the owner scope.
func (r *ruleRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Rule, error) {
	var m model.RuleModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRuleNotFound
		}
		return nil, translateError(result.Error)
	}
	return m.ToEntity(), nil
}

// FindByOwner retrieves all of the owner's rules, priority descending.
func (r *ruleRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Rule, error) {
	return r.findRules(ctx, r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

// FindEnabledByOwner retrieves the owner's enabled rules, priority descending.
func (r *ruleRepository) FindEnabledByOwner(ctx context.Context, ownerID string) ([]*entity.Rule, error) {
	return r.findRules(ctx, r.db.WithContext(ctx).Where("owner_id = ? AND enabled = ?", ownerID, true))
}

func (r *ruleRepository) findRules(_ context.Context, query *gorm.DB) ([]*entity.Rule, error) {
	var rows []model.RuleModel
	result := query.Order("priority DESC, created_at ASC, id ASC").Find(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	rules := make([]*entity.Rule, len(rows))
	for i := range rows {
		rules[i] = rows[i].ToEntity()
	}
	return rules, nil
}

// CountByOwner counts the owner's rules.
func (r *ruleRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.RuleModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return count, nil
}

// Update persists rule field changes.
func (r *ruleRepository) Update(ctx context.Context, rule *entity.Rule) error {
	m := model.RuleFromEntity(rule)
	result := r.db.WithContext(ctx).Model(&model.RuleModel{}).
		Where("owner_id = ? AND id = ?", rule.OwnerID, rule.ID).
		Updates(map[string]any{
			"name":       m.Name,
			"enabled":    m.Enabled,
			"priority":   m.Priority,
			"conditions": m.Conditions,
			"action":     m.Action,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}

// Delete removes a rule.
func (r *ruleRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.RuleModel{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}

// UpdatePriorities assigns priorities in one store transaction.
func (r *ruleRepository) UpdatePriorities(ctx context.Context, ownerID string, assignments []adapter.RulePriorityAssignment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, a := range assignments {
			result := tx.Model(&model.RuleModel{}).
				Where("owner_id = ? AND id = ?", ownerID, a.ID).
				Updates(map[string]any{"priority": a.Priority, "updated_at": now})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainerror.ErrRuleNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrRuleNotFound) {
			return err
		}
		return translateError(err)
	}
	return nil
}

// IncrementMatchStats advances matchCount and lastMatchedAt with one
// atomic update. Concurrent bumps serialize on the row, nothing is
// read-modify-written in application code.
func (r *ruleRepository) IncrementMatchStats(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).Model(&model.RuleModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]any{
			"match_count":     gorm.Expr("match_count + 1"),
			"last_matched_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}

// ExistsMerchantRule reports whether any rule already targets the
// merchant via merchantExact or merchantContains. The conditions live
// in jsonb, so the check runs on the extracted fields.
func (r *ruleRepository) ExistsMerchantRule(ctx context.Context, ownerID, merchantNormalized string) (bool, error) {
	rules, err := r.FindByOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	for _, rule := range rules {
		if rule.Conditions.MerchantExact != nil && strings.EqualFold(*rule.Conditions.MerchantExact, merchantNormalized) {
			return true, nil
		}
		if rule.Conditions.MerchantContains != nil && strings.EqualFold(*rule.Conditions.MerchantContains, merchantNormalized) {
			return true, nil
		}
	}
	return false, nil
}

// dismissedSuggestionRepository implements the
// adapter.DismissedSuggestionRepository interface.
type dismissedSuggestionRepository struct {
	db *gorm.DB
}

// NewDismissedSuggestionRepository creates a new dismissed suggestion
// repository instance.
func NewDismissedSuggestionRepository(db *gorm.DB) adapter.DismissedSuggestionRepository {
	return &dismissedSuggestionRepository{db: db}
}

// Create records a dismissal. A concurrent duplicate is absorbed; the
// suppression is already in place either way.
func (r *dismissedSuggestionRepository) Create(ctx context.Context, dismissal *entity.DismissedSuggestion) error {
	result := r.db.WithContext(ctx).Create(model.DismissedSuggestionFromEntity(dismissal))
	if result.Error != nil {
		if translated := translateError(result.Error); errors.Is(translated, domainerror.ErrConflict) {
			return nil
		}
		return translateError(result.Error)
	}
	return nil
}

// Exists reports whether the (merchant, category) pair was dismissed.
func (r *dismissedSuggestionRepository) Exists(ctx context.Context, ownerID, merchantNormalized, categoryID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.DismissedSuggestionModel{}).
		Where("owner_id = ? AND merchant_normalized = ? AND category_id = ?", ownerID, merchantNormalized, categoryID).
		Count(&count)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return count > 0, nil
}
