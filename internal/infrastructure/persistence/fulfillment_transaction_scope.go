package persistence

import (
	"context"

	appinv "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"gorm.io/gorm"
)

// GormFulfillmentTransactionScope implements the inventory consumer's
// TransactionScope using GORM transactions. Stock deductions, movement rows,
// and the processed-order marker commit or roll back together.
type GormFulfillmentTransactionScope struct {
	db *gorm.DB
}

// NewGormFulfillmentTransactionScope creates a new GormFulfillmentTransactionScope.
func NewGormFulfillmentTransactionScope(db *gorm.DB) *GormFulfillmentTransactionScope {
	return &GormFulfillmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormFulfillmentTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormFulfillmentRepositories{tx: tx}
		return fn(repos)
	})
}

// gormFulfillmentRepositories provides access to the inventory consumer's
// repositories within a transaction.
type gormFulfillmentRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormFulfillmentRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// ConversionRepo returns the unit conversion repository scoped to the current transaction.
func (r *gormFulfillmentRepositories) ConversionRepo() catalog.UnitConversionRepository {
	return NewGormUnitConversionRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormFulfillmentRepositories) MovementRepo() catalog.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// MarkerRepo returns the processed-order marker repository scoped to the current transaction.
func (r *gormFulfillmentRepositories) MarkerRepo() fulfillment.ProcessedOrderRepository {
	return NewGormProcessedOrderRepository(r.tx)
}

// Ensure GormFulfillmentTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormFulfillmentTransactionScope)(nil)

// Ensure gormFulfillmentRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormFulfillmentRepositories)(nil)
