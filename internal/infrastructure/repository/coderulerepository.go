package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sequor/internal/domain/coderule"
	"sequor/internal/infrastructure/persistence/mappers"
	"sequor/internal/infrastructure/persistence/models"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
)

// CodeRuleRepository implements coderule.Repository on GORM.
type CodeRuleRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.CodeRuleMapper
}

// NewCodeRuleRepository creates a new CodeRuleRepository
func NewCodeRuleRepository(db *gorm.DB, logger logger.Interface) coderule.Repository {
	return &CodeRuleRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewCodeRuleMapper(),
	}
}

// Create persists a new rule. The unique index on entity_code is the
// authority on duplicates; a race between two creators resolves there.
func (r *CodeRuleRepository) Create(ctx context.Context, rule *coderule.CodeRule) error {
	model, err := r.mapper.ToModel(rule)
	if err != nil {
		return fmt.Errorf("failed to map code rule: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return coderule.ErrDuplicateEntityCode
		}
		r.logger.Error("failed to create code rule", "entity_code", rule.EntityCode(), "error", err)
		return fmt.Errorf("failed to create code rule: %w", err)
	}

	rule.SetID(model.ID)
	return nil
}

// Update persists administrative fields. Counter columns are omitted; they
// move only through CompareAndSetCounter.
func (r *CodeRuleRepository) Update(ctx context.Context, rule *coderule.CodeRule) error {
	model, err := r.mapper.ToModel(rule)
	if err != nil {
		return fmt.Errorf("failed to map code rule: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.CodeRuleModel{}).
		Where("id = ?", model.ID).
		Select("entity_name", "entity_name_en", "description", "prefix",
			"separator", "digit_length", "use_date", "date_format",
			"reset_cycle", "is_active", "is_deleted", "meta_data", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Error("failed to update code rule", "entity_code", rule.EntityCode(), "error", result.Error)
		return fmt.Errorf("failed to update code rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return coderule.ErrRuleNotFound
	}

	return nil
}

// GetByEntityCode retrieves a rule by its unique entity code. Soft-deleted
// rows are returned too: allocation must refuse them as inactive, not report
// them missing.
func (r *CodeRuleRepository) GetByEntityCode(ctx context.Context, entityCode string) (*coderule.CodeRule, error) {
	var model models.CodeRuleModel

	err := r.db.WithContext(ctx).
		Where("entity_code = ?", strings.ToUpper(strings.TrimSpace(entityCode))).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, coderule.ErrRuleNotFound
		}
		r.logger.Error("failed to get code rule by entity code", "entity_code", entityCode, "error", err)
		return nil, fmt.Errorf("failed to get code rule: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// GetBySID retrieves a rule by its public SID.
func (r *CodeRuleRepository) GetBySID(ctx context.Context, sid string) (*coderule.CodeRule, error) {
	var model models.CodeRuleModel

	err := r.db.WithContext(ctx).
		Where("sid = ? AND is_deleted = ?", sid, false).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, coderule.ErrRuleNotFound
		}
		r.logger.Error("failed to get code rule by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get code rule: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// List returns rules matching the filter plus the unpaginated total.
func (r *CodeRuleRepository) List(ctx context.Context, filter coderule.ListFilter) ([]*coderule.CodeRule, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CodeRuleModel{}).
		Where("is_deleted = ?", false)

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("entity_code LIKE ? OR entity_name LIKE ? OR prefix LIKE ?", keyword, keyword, keyword)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("failed to count code rules", "error", err)
		return nil, 0, fmt.Errorf("failed to count code rules: %w", err)
	}

	var modelList []*models.CodeRuleModel
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("entity_code ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list code rules", "error", err)
		return nil, 0, fmt.Errorf("failed to list code rules: %w", err)
	}

	return r.mapper.ToDomainList(modelList), total, nil
}

// CompareAndSetCounter moves the counter with a conditional UPDATE. The
// WHERE clause pins both the counter value and the period key, so a
// concurrent allocation or a rollover decided against a stale snapshot
// shows up as zero affected rows instead of a silent overwrite.
func (r *CodeRuleRepository) CompareAndSetCounter(ctx context.Context, ruleID uint, prevNumber int64, prevPeriodKey string, nextNumber int64, nextPeriodKey string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CodeRuleModel{}).
		Where("id = ? AND current_number = ? AND last_period_key = ?", ruleID, prevNumber, prevPeriodKey).
		Updates(map[string]interface{}{
			"current_number":  nextNumber,
			"last_period_key": nextPeriodKey,
			"updated_at":      biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Error("failed to compare-and-set counter", "rule_id", ruleID, "error", result.Error)
		return false, fmt.Errorf("failed to compare-and-set counter: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
