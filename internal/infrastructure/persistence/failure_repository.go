package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFailureRepository implements fulfillment.FailureRepository using GORM
type GormFailureRepository struct {
	db *gorm.DB
}

// NewGormFailureRepository creates a new GormFailureRepository
func NewGormFailureRepository(db *gorm.DB) *GormFailureRepository {
	return &GormFailureRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormFailureRepository) WithTx(tx *gorm.DB) *GormFailureRepository {
	return &GormFailureRepository{db: tx}
}

// Save persists a failure record
func (r *GormFailureRepository) Save(ctx context.Context, failure *fulfillment.Failure) error {
	model := models.FailureModelFromDomain(failure)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll lists failure records for a shop, newest first
func (r *GormFailureRepository) FindAll(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]fulfillment.Failure, int64, error) {
	var failureModels []models.FailureModel

	base := r.db.WithContext(ctx).Model(&models.FailureModel{}).Where("shop_id = ?", shopID)
	if consumer, ok := filter.Filters["consumer"].(string); ok && consumer != "" {
		base = base.Where("consumer = ?", consumer)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if err := query.Order("occurred_at DESC").Find(&failureModels).Error; err != nil {
		return nil, 0, err
	}

	failures := make([]fulfillment.Failure, len(failureModels))
	for i, model := range failureModels {
		failures[i] = *model.ToDomain()
	}
	return failures, total, nil
}

// FindByOrder lists failure records for an order
func (r *GormFailureRepository) FindByOrder(ctx context.Context, shopID, orderID uuid.UUID) ([]fulfillment.Failure, error) {
	var failureModels []models.FailureModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND order_id = ?", shopID, orderID).
		Order("occurred_at DESC").
		Find(&failureModels).Error; err != nil {
		return nil, err
	}

	failures := make([]fulfillment.Failure, len(failureModels))
	for i, model := range failureModels {
		failures[i] = *model.ToDomain()
	}
	return failures, nil
}

var _ fulfillment.FailureRepository = (*GormFailureRepository)(nil)
