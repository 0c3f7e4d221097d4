package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/fulfillment"
)

// ProcessedOrderModel is the persistence model for processed-order markers.
// The unique index over (consumer, order_id, shop_id) is what enforces
// exactly-once processing per consumer.
type ProcessedOrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Consumer    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_processed_orders_consumer_order,priority:1"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_processed_orders_consumer_order,priority:2"`
	ShopID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_processed_orders_consumer_order,priority:3"`
	EventID     uuid.UUID `gorm:"type:uuid;not null"`
	ProcessedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProcessedOrderModel) TableName() string {
	return "processed_orders"
}

// ToDomain converts the persistence model to a domain ProcessedOrder marker.
func (m *ProcessedOrderModel) ToDomain() *fulfillment.ProcessedOrder {
	return &fulfillment.ProcessedOrder{
		ID:          m.ID,
		Consumer:    m.Consumer,
		OrderID:     m.OrderID,
		ShopID:      m.ShopID,
		EventID:     m.EventID,
		ProcessedAt: m.ProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain ProcessedOrder marker.
func (m *ProcessedOrderModel) FromDomain(p *fulfillment.ProcessedOrder) {
	m.ID = p.ID
	m.Consumer = p.Consumer
	m.OrderID = p.OrderID
	m.ShopID = p.ShopID
	m.EventID = p.EventID
	m.ProcessedAt = p.ProcessedAt
}

// ProcessedOrderModelFromDomain creates a new persistence model from a domain ProcessedOrder marker.
func ProcessedOrderModelFromDomain(p *fulfillment.ProcessedOrder) *ProcessedOrderModel {
	m := &ProcessedOrderModel{}
	m.FromDomain(p)
	return m
}

// FailureModel is the persistence model for permanently rejected events.
type FailureModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Consumer   string    `gorm:"type:varchar(50);not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EventID    uuid.UUID `gorm:"type:uuid;not null"`
	EventType  string    `gorm:"type:varchar(100);not null"`
	ErrorCode  string    `gorm:"type:varchar(50);not null"`
	ErrorMsg   string    `gorm:"type:text"`
	Payload    []byte    `gorm:"type:jsonb"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (FailureModel) TableName() string {
	return "fulfillment_failures"
}

// ToDomain converts the persistence model to a domain Failure record.
func (m *FailureModel) ToDomain() *fulfillment.Failure {
	return &fulfillment.Failure{
		ID:         m.ID,
		Consumer:   m.Consumer,
		OrderID:    m.OrderID,
		ShopID:     m.ShopID,
		EventID:    m.EventID,
		EventType:  m.EventType,
		ErrorCode:  m.ErrorCode,
		ErrorMsg:   m.ErrorMsg,
		Payload:    m.Payload,
		OccurredAt: m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain Failure record.
func (m *FailureModel) FromDomain(f *fulfillment.Failure) {
	m.ID = f.ID
	m.Consumer = f.Consumer
	m.OrderID = f.OrderID
	m.ShopID = f.ShopID
	m.EventID = f.EventID
	m.EventType = f.EventType
	m.ErrorCode = f.ErrorCode
	m.ErrorMsg = f.ErrorMsg
	m.Payload = f.Payload
	m.OccurredAt = f.OccurredAt
}

// FailureModelFromDomain creates a new persistence model from a domain Failure record.
func FailureModelFromDomain(f *fulfillment.Failure) *FailureModel {
	m := &FailureModel{}
	m.FromDomain(f)
	return m
}
