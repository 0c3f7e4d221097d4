package inventory

import (
	"context"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/fulfillment"
)

// TransactionScope provides transactional access to the repositories the
// fulfillment consumer touches. Everything done inside Execute commits or
// rolls back as one unit, which is what makes fulfillment all-or-nothing:
// either every line is deducted and the marker written, or nothing is.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the fulfillment repositories
// within a transaction. All repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ConversionRepo returns the unit conversion repository scoped to the current transaction
	ConversionRepo() catalog.UnitConversionRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() catalog.StockMovementRepository
	// MarkerRepo returns the processed-order marker repository scoped to the current transaction
	MarkerRepo() fulfillment.ProcessedOrderRepository
}
