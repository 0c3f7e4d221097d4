package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	ShopAggregateModel
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_shop_code,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	BaseUnit      string          `gorm:"type:varchar(20);not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product aggregate.
func (m *ProductModel) ToDomain() *catalog.Product {
	product := &catalog.Product{
		Code:          m.Code,
		Name:          m.Name,
		BaseUnit:      m.BaseUnit,
		StockQuantity: m.StockQuantity,
		SellingPrice:  m.SellingPrice,
		IsActive:      m.IsActive,
	}
	m.PopulateShopAggregateRoot(&product.ShopAggregateRoot)
	return product
}

// FromDomain populates the persistence model from a domain Product aggregate.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainShopAggregateRoot(p.ShopAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.BaseUnit = p.BaseUnit
	m.StockQuantity = p.StockQuantity
	m.SellingPrice = p.SellingPrice
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product aggregate.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// UnitConversionModel is the persistence model for the UnitConversion entity.
type UnitConversionModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ShopID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_unit_conversions_lookup,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_unit_conversions_lookup,priority:2"`
	UnitCode  string          `gorm:"type:varchar(20);not null"`
	Factor    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UnitConversionModel) TableName() string {
	return "unit_conversions"
}

// ToDomain converts the persistence model to a domain UnitConversion entity.
func (m *UnitConversionModel) ToDomain() *catalog.UnitConversion {
	return &catalog.UnitConversion{
		ID:        m.ID,
		ShopID:    m.ShopID,
		ProductID: m.ProductID,
		UnitCode:  m.UnitCode,
		Factor:    m.Factor,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain UnitConversion entity.
func (m *UnitConversionModel) FromDomain(uc *catalog.UnitConversion) {
	m.ID = uc.ID
	m.ShopID = uc.ShopID
	m.ProductID = uc.ProductID
	m.UnitCode = uc.UnitCode
	m.Factor = uc.Factor
	m.CreatedAt = uc.CreatedAt
	m.UpdatedAt = uc.UpdatedAt
}

// UnitConversionModelFromDomain creates a new persistence model from a domain UnitConversion entity.
func UnitConversionModelFromDomain(uc *catalog.UnitConversion) *UnitConversionModel {
	m := &UnitConversionModel{}
	m.FromDomain(uc)
	return m
}

// StockMovementModel is the persistence model for the StockMovement record.
type StockMovementModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	ShopID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderID   *uuid.UUID           `gorm:"type:uuid;index"`
	Type      catalog.MovementType `gorm:"type:varchar(20);not null"`
	Quantity  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Reference string               `gorm:"type:varchar(100)"`
	CreatedAt time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement record.
func (m *StockMovementModel) ToDomain() *catalog.StockMovement {
	return &catalog.StockMovement{
		ID:        m.ID,
		ShopID:    m.ShopID,
		ProductID: m.ProductID,
		OrderID:   m.OrderID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockMovement record.
func (m *StockMovementModel) FromDomain(sm *catalog.StockMovement) {
	m.ID = sm.ID
	m.ShopID = sm.ShopID
	m.ProductID = sm.ProductID
	m.OrderID = sm.OrderID
	m.Type = sm.Type
	m.Quantity = sm.Quantity
	m.Reference = sm.Reference
	m.CreatedAt = sm.CreatedAt
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement record.
func StockMovementModelFromDomain(sm *catalog.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomain(sm)
	return m
}
