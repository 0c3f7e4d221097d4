package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod represents how the customer settled the order
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodDebt     PaymentMethod = "DEBT"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodDebt:
		return true
	}
	return false
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal // Quantity in the sale unit
	Unit        string          // Sale unit of measure (may differ from the product base unit)
	UnitPrice   decimal.Decimal // Price per sale unit
	Amount      decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetAmountMoney returns the line amount as Money value object
func (i *OrderItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyVND(i.Amount)
}

// Order is the order aggregate root. An order records a sale that already
// happened at the counter: once completed it is an immutable fact whose
// downstream effects (stock deduction, debt recording) run asynchronously.
type Order struct {
	shared.ShopAggregateRoot
	OrderNumber   string
	CustomerID    *uuid.UUID // Optional walk-in sales have no customer
	CustomerName  string
	Items         []OrderItem
	TotalAmount   decimal.Decimal // Sum of all line amounts
	AmountPaid    decimal.Decimal // Paid at the counter; the rest becomes debt
	PaymentMethod PaymentMethod
	IsDebtSale    bool
	Status        OrderStatus
	Note          string
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
}

// NewOrder creates a new draft order
func NewOrder(shopID uuid.UUID, orderNumber string) (*Order, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}

	return &Order{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		OrderNumber:       orderNumber,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		AmountPaid:        decimal.Zero,
		PaymentMethod:     PaymentMethodCash,
		Status:            OrderStatusDraft,
	}, nil
}

// AddItem adds a new line item. Only allowed in DRAFT status.
func (o *Order) AddItem(productID uuid.UUID, productName, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	item, err := NewOrderItem(o.ID, productID, productName, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// SetCustomer attaches a customer to the order
func (o *Order) SetCustomer(customerID uuid.UUID, customerName string) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change customer on a non-draft order")
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	o.CustomerID = &customerID
	o.CustomerName = customerName
	o.UpdatedAt = time.Now()
	return nil
}

// SetPayment records how the order was settled at the counter.
// A debt sale is any order where the paid amount is allowed to fall short
// of the total; the shortfall is booked against the customer later.
func (o *Order) SetPayment(amountPaid decimal.Decimal, method PaymentMethod, isDebtSale bool) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment on a non-draft order")
	}
	if amountPaid.IsNegative() {
		return shared.NewDomainError("INVALID_PAYMENT", "Paid amount cannot be negative")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT", "Unknown payment method")
	}
	o.AmountPaid = amountPaid
	o.PaymentMethod = method
	o.IsDebtSale = isDebtSale
	o.UpdatedAt = time.Now()
	return nil
}

// SetNote sets a free-form note on the order
func (o *Order) SetNote(note string) {
	o.Note = note
	o.UpdatedAt = time.Now()
}

// Complete finalizes the order and raises the fulfillment event.
// After this the order is an immutable fact.
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be completed")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	if o.IsDebtSale && o.CustomerID == nil {
		return shared.NewDomainError("INVALID_DEBT_SALE", "Debt sale requires a customer")
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return nil
}

// Cancel cancels a draft order
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be cancelled")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	return nil
}

// OutstandingAmount returns the unpaid part of the order (TotalAmount - AmountPaid)
func (o *Order) OutstandingAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.AmountPaid)
}

// HasOutstandingDebt reports whether the order leaves debt to record
func (o *Order) HasOutstandingDebt() bool {
	return o.IsDebtSale && o.CustomerID != nil && o.OutstandingAmount().IsPositive()
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}
