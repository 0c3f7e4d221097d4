package ordering

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants. The event type doubles as the routing key on the
// broker, so consumers subscribe to the same string they see here.
const (
	EventTypeOrderCreated = "order.created"
)

// OrderItemInfo carries the per-line facts fulfillment needs: what was sold,
// how much, and in which sale unit
type OrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderCreatedEvent is raised when an order is completed at the counter.
// It is self-contained: consumers act on the payload alone and never call
// back into the ordering service.
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	IsDebtSale  bool            `json:"is_debt_sale"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Items       []OrderItemInfo `json:"items"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	items := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.ShopID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		IsDebtSale:      order.IsDebtSale,
		TotalAmount:     order.TotalAmount,
		AmountPaid:      order.AmountPaid,
		Items:           items,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OutstandingAmount returns the unpaid part of the order captured in the event
func (e *OrderCreatedEvent) OutstandingAmount() decimal.Decimal {
	return e.TotalAmount.Sub(e.AmountPaid)
}
