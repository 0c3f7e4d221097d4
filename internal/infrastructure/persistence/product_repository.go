package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: tx}
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a product by ID within a shop
func (r *GormProductRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a product by code within a shop
func (r *GormProductRepository) FindByCode(ctx context.Context, shopID uuid.UUID, code string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND code = ?", shopID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeductStock atomically lowers a product's stock by baseQuantity. The
// deduction is a single conditional UPDATE so concurrent deductions against
// the same product cannot oversell: the stock guard is evaluated by the
// database under row locking, not read-then-written by the application.
func (r *GormProductRepository) DeductStock(ctx context.Context, shopID, productID uuid.UUID, baseQuantity decimal.Decimal, allowNegative bool) error {
	if baseQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}

	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("shop_id = ? AND id = ?", shopID, productID)
	if !allowNegative {
		query = query.Where("stock_quantity >= ?", baseQuantity)
	}

	result := query.Updates(map[string]interface{}{
		"stock_quantity": gorm.Expr("stock_quantity - ?", baseQuantity),
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows means either the product does not exist or the guard failed.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("shop_id = ? AND id = ?", shopID, productID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
