package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is the catalog aggregate root. Stock is tracked in the base unit
// only; sale units are mapped through UnitConversion entries.
type Product struct {
	shared.ShopAggregateRoot
	Code          string
	Name          string
	BaseUnit      string          // Unit stock is counted in (e.g. "bao", "chai")
	StockQuantity decimal.Decimal // On-hand quantity in base units
	SellingPrice  decimal.Decimal // Default price per base unit
	IsActive      bool
}

// NewProduct creates a new product
func NewProduct(shopID uuid.UUID, code, name, baseUnit string) (*Product, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if strings.TrimSpace(baseUnit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Base unit cannot be empty")
	}

	return &Product{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Code:              code,
		Name:              name,
		BaseUnit:          strings.TrimSpace(baseUnit),
		StockQuantity:     decimal.Zero,
		SellingPrice:      decimal.Zero,
		IsActive:          true,
	}, nil
}

// IsBaseUnit reports whether the given unit names the product's base unit.
// Unit names coming from order payloads are free text, so the comparison
// trims whitespace and ignores case.
func (p *Product) IsBaseUnit(unit string) bool {
	return UnitsEqual(p.BaseUnit, unit)
}

// HasSufficientStock reports whether the on-hand quantity covers the
// requested base quantity
func (p *Product) HasSufficientStock(baseQuantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(baseQuantity)
}

// Deduct lowers the on-hand stock by the given base quantity.
// When allowNegative is false the deduction fails rather than driving
// stock below zero.
func (p *Product) Deduct(baseQuantity decimal.Decimal, allowNegative bool) error {
	if baseQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if !allowNegative && !p.HasSufficientStock(baseQuantity) {
		return shared.ErrInsufficientStock
	}
	p.StockQuantity = p.StockQuantity.Sub(baseQuantity)
	p.UpdatedAt = time.Now()
	return nil
}

// AddStock raises the on-hand stock by the given base quantity
func (p *Product) AddStock(baseQuantity decimal.Decimal) error {
	if baseQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity must be positive")
	}
	p.StockQuantity = p.StockQuantity.Add(baseQuantity)
	p.UpdatedAt = time.Now()
	return nil
}

// SetSellingPrice sets the default selling price per base unit
func (p *Product) SetSellingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	p.SellingPrice = price
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// NormalizeUnit canonicalizes a unit name for comparison
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// UnitsEqual compares two unit names ignoring case and surrounding whitespace
func UnitsEqual(a, b string) bool {
	return NormalizeUnit(a) == NormalizeUnit(b)
}
