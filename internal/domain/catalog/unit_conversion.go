package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitConversion maps a sale unit of a product to its base unit
// (e.g. 1 thung = 24 chai). The factor is how many base units one
// sale unit contains.
type UnitConversion struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	ProductID uuid.UUID
	UnitCode  string          // Sale unit name as entered at the counter
	Factor    decimal.Decimal // Base units per one sale unit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUnitConversion creates a new unit conversion
func NewUnitConversion(shopID, productID uuid.UUID, unitCode string, factor decimal.Decimal) (*UnitConversion, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if NormalizeUnit(unitCode) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot be empty")
	}
	if len(unitCode) > 20 {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot exceed 20 characters")
	}
	if err := validateConversionFactor(factor); err != nil {
		return nil, err
	}

	now := time.Now()
	return &UnitConversion{
		ID:        uuid.New(),
		ShopID:    shopID,
		ProductID: productID,
		UnitCode:  unitCode,
		Factor:    factor,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update changes the conversion factor
func (uc *UnitConversion) Update(factor decimal.Decimal) error {
	if err := validateConversionFactor(factor); err != nil {
		return err
	}
	uc.Factor = factor
	uc.UpdatedAt = time.Now()
	return nil
}

// MatchesUnit reports whether the conversion applies to the given unit name
func (uc *UnitConversion) MatchesUnit(unit string) bool {
	return UnitsEqual(uc.UnitCode, unit)
}

// ConvertToBaseUnit converts a sale-unit quantity to base units
// Formula: baseQuantity = quantity * factor
func (uc *UnitConversion) ConvertToBaseUnit(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(uc.Factor).Round(4)
}

// validateConversionFactor validates the conversion factor
func validateConversionFactor(factor decimal.Decimal) error {
	if factor.IsNegative() {
		return shared.NewDomainError("INVALID_CONVERSION_FACTOR", "Conversion factor cannot be negative")
	}
	if factor.IsZero() {
		return shared.NewDomainError("INVALID_CONVERSION_FACTOR", "Conversion factor cannot be zero")
	}
	return nil
}
