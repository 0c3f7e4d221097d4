package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds the generate-and-check loop for order numbers
const orderNumberAttempts = 5

// OrderService handles order submission and queries. Submission is the only
// write: it persists the completed order together with its fulfillment event
// in one transaction (through the repository's outbox saver) and returns.
// Everything downstream of the commit is asynchronous.
type OrderService struct {
	orderRepo ordering.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo ordering.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Submit records a sale that happened at the counter. The order is created,
// completed, and persisted in one call; the returned response reflects the
// accepted fact, not the fulfillment outcome.
func (s *OrderService) Submit(ctx context.Context, shopID uuid.UUID, req SubmitOrderRequest) (*OrderResponse, error) {
	if req.IsDebtSale && req.CustomerID == nil {
		return nil, shared.NewDomainError("INVALID_DEBT_SALE", "Debt sale requires a customer")
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" {
		generated, err := s.generateOrderNumber(ctx, shopID)
		if err != nil {
			return nil, err
		}
		orderNumber = generated
	} else {
		exists, err := s.orderRepo.ExistsByOrderNumber(ctx, shopID, orderNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number is already taken")
		}
	}

	order, err := ordering.NewOrder(shopID, orderNumber)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if err := order.SetCustomer(*req.CustomerID, req.CustomerName); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		unitPrice := valueobject.NewMoneyVND(item.UnitPrice)
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.Unit, item.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	method := ordering.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		method = ordering.PaymentMethodCash
		if req.IsDebtSale {
			method = ordering.PaymentMethodDebt
		}
	}
	if err := order.SetPayment(req.AmountPaid, method, req.IsDebtSale); err != nil {
		return nil, err
	}

	if req.Note != "" {
		order.SetNote(req.Note)
	}

	if err := order.Complete(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order",
			zap.String("shop_id", shopID.String()),
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Order submitted",
		zap.String("shop_id", shopID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", orderNumber),
		zap.String("total_amount", order.TotalAmount.String()),
		zap.Bool("is_debt_sale", order.IsDebtSale),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, shopID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its number
func (s *OrderService) GetByOrderNumber(ctx context.Context, shopID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, shopID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, shopID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.IsDebtSale != nil {
		domainFilter.Filters["is_debt_sale"] = *filter.IsDebtSale
	}

	orders, total, err := s.orderRepo.FindAll(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// generateOrderNumber produces a number like HD-20250114-3F2A91C4 and retries
// on the rare collision
func (s *OrderService) generateOrderNumber(ctx context.Context, shopID uuid.UUID) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		number := fmt.Sprintf("HD-%s-%s", time.Now().Format("20060102"), suffix)

		exists, err := s.orderRepo.ExistsByOrderNumber(ctx, shopID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("ORDER_NUMBER_EXHAUSTED", "Could not generate a unique order number")
}
