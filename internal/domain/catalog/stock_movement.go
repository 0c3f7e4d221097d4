package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeSale       MovementType = "SALE"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeRestock    MovementType = "RESTOCK"
)

// StockMovement is an immutable audit record of a stock change.
// Quantity is signed: deductions are negative, restocks positive.
// Quantities are always in the product base unit.
type StockMovement struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	ProductID uuid.UUID
	OrderID   *uuid.UUID // Set for sale movements
	Type      MovementType
	Quantity  decimal.Decimal // Signed delta in base units
	Reference string
	CreatedAt time.Time
}

// NewSaleMovement records a deduction caused by an order
func NewSaleMovement(shopID, productID, orderID uuid.UUID, baseQuantity decimal.Decimal, reference string) (*StockMovement, error) {
	if baseQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	return &StockMovement{
		ID:        uuid.New(),
		ShopID:    shopID,
		ProductID: productID,
		OrderID:   &orderID,
		Type:      MovementTypeSale,
		Quantity:  baseQuantity.Neg(),
		Reference: reference,
		CreatedAt: time.Now(),
	}, nil
}

// NewRestockMovement records incoming stock
func NewRestockMovement(shopID, productID uuid.UUID, baseQuantity decimal.Decimal, reference string) (*StockMovement, error) {
	if baseQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	return &StockMovement{
		ID:        uuid.New(),
		ShopID:    shopID,
		ProductID: productID,
		Type:      MovementTypeRestock,
		Quantity:  baseQuantity,
		Reference: reference,
		CreatedAt: time.Now(),
	}, nil
}
