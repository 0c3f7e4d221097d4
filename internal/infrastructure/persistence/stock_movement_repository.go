package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements catalog.StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: tx}
}

// Save persists one or more stock movements. Movements are immutable audit
// records, so this is insert-only.
func (r *GormStockMovementRepository) Save(ctx context.Context, movements ...*catalog.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	movementModels := make([]models.StockMovementModel, len(movements))
	for i, movement := range movements {
		movementModels[i] = *models.StockMovementModelFromDomain(movement)
	}
	return r.db.WithContext(ctx).Create(&movementModels).Error
}

// FindByOrder lists movements recorded for an order
func (r *GormStockMovementRepository) FindByOrder(ctx context.Context, shopID, orderID uuid.UUID) ([]catalog.StockMovement, error) {
	var movementModels []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND order_id = ?", shopID, orderID).
		Order("created_at ASC").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}

	movements := make([]catalog.StockMovement, len(movementModels))
	for i, model := range movementModels {
		movements[i] = *model.ToDomain()
	}
	return movements, nil
}

var _ catalog.StockMovementRepository = (*GormStockMovementRepository)(nil)
