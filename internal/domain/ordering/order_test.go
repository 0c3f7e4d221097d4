package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	shopID := uuid.New()
	order, err := NewOrder(shopID, "ORD-2026-001")
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *Order, productName, unit string, quantity float64, price float64) *OrderItem {
	productID := uuid.New()
	unitPrice := valueobject.NewMoneyVNDFromFloat(price)
	item, err := order.AddItem(productID, productName, unit, decimal.NewFromFloat(quantity), unitPrice)
	require.NoError(t, err)
	return item
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From DRAFT
		{OrderStatusDraft, OrderStatusCompleted, true},
		{OrderStatusDraft, OrderStatusCancelled, true},
		// From COMPLETED (terminal)
		{OrderStatusCompleted, OrderStatusDraft, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		// From CANCELLED (terminal)
		{OrderStatusCancelled, OrderStatusDraft, false},
		{OrderStatusCancelled, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewOrder(t *testing.T) {
	shopID := uuid.New()

	t.Run("creates draft order with valid inputs", func(t *testing.T) {
		order, err := NewOrder(shopID, "ORD-2026-001")
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, shopID, order.ShopID)
		assert.Equal(t, "ORD-2026-001", order.OrderNumber)
		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.Empty(t, order.Items)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Nil(t, order.CustomerID)
		assert.NotEmpty(t, order.ID)
		assert.Empty(t, order.GetDomainEvents())
	})

	t.Run("fails with empty order number", func(t *testing.T) {
		_, err := NewOrder(shopID, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Order number cannot be empty")
	})

	t.Run("fails with nil shop", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, "ORD-2026-001")
		require.Error(t, err)
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates total", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice 5kg", "bag", 2, 150000)
		addTestItem(t, order, "Fish sauce", "bottle", 3, 40000)

		assert.Len(t, order.Items, 2)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(420000)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Rice", "bag", decimal.Zero, valueobject.ZeroVND())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Quantity must be positive")
	})

	t.Run("rejects empty unit", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Rice", "", decimal.NewFromInt(1), valueobject.ZeroVND())
		require.Error(t, err)
	})

	t.Run("rejects items on completed order", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 100000)
		require.NoError(t, order.Complete())

		_, err := order.AddItem(uuid.New(), "More rice", "bag", decimal.NewFromInt(1), valueobject.ZeroVND())
		require.Error(t, err)
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("completes order and raises fulfillment event", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice 5kg", "bag", 2, 150000)

		err := order.Complete()
		require.NoError(t, err)

		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())

		event, ok := events[0].(*OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, order.ShopID, event.ShopID())
		assert.True(t, event.TotalAmount.Equal(decimal.NewFromInt(300000)))
		require.Len(t, event.Items, 1)
		assert.Equal(t, "bag", event.Items[0].Unit)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.Complete()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("rejects debt sale without customer", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 300000)
		require.NoError(t, order.SetPayment(decimal.NewFromInt(100000), PaymentMethodDebt, true))

		err := order.Complete()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a customer")
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 100000)
		require.NoError(t, order.Complete())

		err := order.Complete()
		require.Error(t, err)
	})
}

func TestOrder_DebtSale(t *testing.T) {
	t.Run("debt sale carries outstanding amount into event", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 300000)
		require.NoError(t, order.SetCustomer(uuid.New(), "Chi Lan"))
		require.NoError(t, order.SetPayment(decimal.NewFromInt(100000), PaymentMethodDebt, true))
		require.NoError(t, order.Complete())

		assert.True(t, order.HasOutstandingDebt())
		assert.True(t, order.OutstandingAmount().Equal(decimal.NewFromInt(200000)))

		event := order.GetDomainEvents()[0].(*OrderCreatedEvent)
		assert.True(t, event.IsDebtSale)
		assert.True(t, event.OutstandingAmount().Equal(decimal.NewFromInt(200000)))
	})

	t.Run("fully paid debt-flagged sale leaves no outstanding debt", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 300000)
		require.NoError(t, order.SetCustomer(uuid.New(), "Chi Lan"))
		require.NoError(t, order.SetPayment(decimal.NewFromInt(300000), PaymentMethodDebt, true))
		require.NoError(t, order.Complete())

		assert.False(t, order.HasOutstandingDebt())
	})

	t.Run("rejects negative paid amount", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.SetPayment(decimal.NewFromInt(-1), PaymentMethodCash, false)
		require.Error(t, err)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels draft order", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.Cancel("customer walked away")
		require.NoError(t, err)
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "customer walked away", order.CancelReason)
	})

	t.Run("cannot cancel completed order", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Rice", "bag", 1, 100000)
		require.NoError(t, order.Complete())

		err := order.Cancel("too late")
		require.Error(t, err)
	})
}
