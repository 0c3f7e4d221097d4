package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProcessedOrderRepository implements fulfillment.ProcessedOrderRepository using GORM
type GormProcessedOrderRepository struct {
	db *gorm.DB
}

// NewGormProcessedOrderRepository creates a new GormProcessedOrderRepository
func NewGormProcessedOrderRepository(db *gorm.DB) *GormProcessedOrderRepository {
	return &GormProcessedOrderRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormProcessedOrderRepository) WithTx(tx *gorm.DB) *GormProcessedOrderRepository {
	return &GormProcessedOrderRepository{db: tx}
}

// Save persists a marker. The insert is guarded by the unique index over
// (consumer, order_id, shop_id); a conflicting insert affects zero rows and
// is reported as ErrAlreadyExists rather than a database error, so two
// concurrent deliveries of the same event race safely.
func (r *GormProcessedOrderRepository) Save(ctx context.Context, marker *fulfillment.ProcessedOrder) error {
	model := models.ProcessedOrderModelFromDomain(marker)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyExists
	}
	return nil
}

// Exists reports whether a marker exists for the consumer/order pair
func (r *GormProcessedOrderRepository) Exists(ctx context.Context, consumer string, shopID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProcessedOrderModel{}).
		Where("consumer = ? AND shop_id = ? AND order_id = ?", consumer, shopID, orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ fulfillment.ProcessedOrderRepository = (*GormProcessedOrderRepository)(nil)
