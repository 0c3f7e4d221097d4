package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	// Save persists a product
	Save(ctx context.Context, product *Product) error
	// FindByID retrieves a product by ID scoped to a shop
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*Product, error)
	// FindByCode retrieves a product by code scoped to a shop
	FindByCode(ctx context.Context, shopID uuid.UUID, code string) (*Product, error)
	// DeductStock atomically lowers a product's stock by the given base
	// quantity. With allowNegative false the update is guarded so stock
	// never goes below zero; the guard failing yields ErrInsufficientStock.
	// An unknown product yields ErrNotFound.
	DeductStock(ctx context.Context, shopID, productID uuid.UUID, baseQuantity decimal.Decimal, allowNegative bool) error
}

// UnitConversionRepository defines the persistence interface for unit conversions
type UnitConversionRepository interface {
	// Save persists a unit conversion
	Save(ctx context.Context, conversion *UnitConversion) error
	// FindByProductAndUnit retrieves the conversion for a product and sale
	// unit. Lookup is case-insensitive on the unit code. Returns ErrNotFound
	// when no conversion is configured for the unit.
	FindByProductAndUnit(ctx context.Context, shopID, productID uuid.UUID, unit string) (*UnitConversion, error)
	// FindByProduct lists all conversions configured for a product
	FindByProduct(ctx context.Context, shopID, productID uuid.UUID) ([]UnitConversion, error)
}

// StockMovementRepository defines the persistence interface for stock movements
type StockMovementRepository interface {
	// Save persists one or more stock movements
	Save(ctx context.Context, movements ...*StockMovement) error
	// FindByOrder lists movements recorded for an order
	FindByOrder(ctx context.Context, shopID, orderID uuid.UUID) ([]StockMovement, error)
}
