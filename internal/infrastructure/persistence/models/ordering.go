package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	ShopAggregateModel
	OrderNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_shop_number,priority:2"`
	CustomerID    *uuid.UUID             `gorm:"type:uuid;index"`
	CustomerName  string                 `gorm:"type:varchar(200)"`
	Items         []OrderItemModel       `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod ordering.PaymentMethod `gorm:"type:varchar(20);not null;default:'CASH'"`
	IsDebtSale    bool                   `gorm:"not null;default:false"`
	Status        ordering.OrderStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Note          string                 `gorm:"type:text"`
	CompletedAt   *time.Time             `gorm:"index"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		TotalAmount:   m.TotalAmount,
		AmountPaid:    m.AmountPaid,
		PaymentMethod: m.PaymentMethod,
		IsDebtSale:    m.IsDebtSale,
		Status:        m.Status,
		Note:          m.Note,
		CompletedAt:   m.CompletedAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		Items:         make([]ordering.OrderItem, len(m.Items)),
	}
	m.PopulateShopAggregateRoot(&order.ShopAggregateRoot)
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainShopAggregateRoot(o.ShopAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CustomerName = o.CustomerName
	m.TotalAmount = o.TotalAmount
	m.AmountPaid = o.AmountPaid
	m.PaymentMethod = o.PaymentMethod
	m.IsDebtSale = o.IsDebtSale
	m.Status = o.Status
	m.Note = o.Note
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	return &ordering.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem entity.
func (m *OrderItemModel) FromDomain(i *ordering.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.Quantity = i.Quantity
	m.Unit = i.Unit
	m.UnitPrice = i.UnitPrice
	m.Amount = i.Amount
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem entity.
func OrderItemModelFromDomain(i *ordering.OrderItem) *OrderItemModel {
	m := &OrderItemModel{}
	m.FromDomain(i)
	return m
}
