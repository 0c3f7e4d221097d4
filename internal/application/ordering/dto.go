package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// SubmitOrderRequest represents an order captured at the counter. Submission
// records a sale that already happened, so the request carries the full fact:
// lines, payment, and an optional customer for debt sales.
type SubmitOrderRequest struct {
	OrderNumber   string                 `json:"order_number" binding:"omitempty,max=50"`
	CustomerID    *uuid.UUID             `json:"customer_id"`
	CustomerName  string                 `json:"customer_name" binding:"omitempty,max=200"`
	Items         []SubmitOrderItemInput `json:"items" binding:"required,min=1,dive"`
	AmountPaid    decimal.Decimal        `json:"amount_paid"`
	PaymentMethod string                 `json:"payment_method" binding:"omitempty,oneof=CASH TRANSFER DEBT"`
	IsDebtSale    bool                   `json:"is_debt_sale"`
	Note          string                 `json:"note"`
}

// SubmitOrderItemInput represents a line in the submit request
type SubmitOrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// OrderListFilter represents filter options for listing orders
type OrderListFilter struct {
	Page       int        `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by,omitempty"`
	OrderDir   string     `form:"order_dir,omitempty" binding:"omitempty,oneof=asc desc"`
	Search     string     `form:"search,omitempty"`
	CustomerID *uuid.UUID `form:"customer_id,omitempty"`
	Status     string     `form:"status,omitempty" binding:"omitempty,oneof=DRAFT COMPLETED CANCELLED"`
	IsDebtSale *bool      `form:"is_debt_sale,omitempty"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	ShopID        uuid.UUID           `json:"shop_id"`
	OrderNumber   string              `json:"order_number"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	PaymentMethod string              `json:"payment_method"`
	IsDebtSale    bool                `json:"is_debt_sale"`
	Status        string              `json:"status"`
	Note          string              `json:"note,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to an OrderResponse
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	return OrderResponse{
		ID:            order.ID,
		ShopID:        order.ShopID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		AmountPaid:    order.AmountPaid,
		PaymentMethod: string(order.PaymentMethod),
		IsDebtSale:    order.IsDebtSale,
		Status:        order.Status.String(),
		Note:          order.Note,
		CompletedAt:   order.CompletedAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
