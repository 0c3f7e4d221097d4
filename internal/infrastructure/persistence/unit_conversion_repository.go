package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitConversionRepository implements catalog.UnitConversionRepository using GORM
type GormUnitConversionRepository struct {
	db *gorm.DB
}

// NewGormUnitConversionRepository creates a new GormUnitConversionRepository
func NewGormUnitConversionRepository(db *gorm.DB) *GormUnitConversionRepository {
	return &GormUnitConversionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormUnitConversionRepository) WithTx(tx *gorm.DB) *GormUnitConversionRepository {
	return &GormUnitConversionRepository{db: tx}
}

// Save creates or updates a unit conversion
func (r *GormUnitConversionRepository) Save(ctx context.Context, conversion *catalog.UnitConversion) error {
	model := models.UnitConversionModelFromDomain(conversion)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByProductAndUnit finds the conversion for a product and sale unit.
// Unit names are free text entered at the counter, so the match trims
// whitespace and ignores case.
func (r *GormUnitConversionRepository) FindByProductAndUnit(ctx context.Context, shopID, productID uuid.UUID, unit string) (*catalog.UnitConversion, error) {
	var model models.UnitConversionModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ? AND LOWER(TRIM(unit_code)) = ?",
			shopID, productID, catalog.NormalizeUnit(unit)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct lists all conversions configured for a product
func (r *GormUnitConversionRepository) FindByProduct(ctx context.Context, shopID, productID uuid.UUID) ([]catalog.UnitConversion, error) {
	var conversionModels []models.UnitConversionModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopID, productID).
		Order("unit_code ASC").
		Find(&conversionModels).Error; err != nil {
		return nil, err
	}

	conversions := make([]catalog.UnitConversion, len(conversionModels))
	for i, model := range conversionModels {
		conversions[i] = *model.ToDomain()
	}
	return conversions, nil
}

var _ catalog.UnitConversionRepository = (*GormUnitConversionRepository)(nil)
