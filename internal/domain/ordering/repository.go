package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	// Save persists the order, its items, and any pending domain events
	// in a single transaction
	Save(ctx context.Context, order *Order) error
	// FindByID retrieves an order by ID scoped to a shop
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*Order, error)
	// FindByOrderNumber retrieves an order by its number scoped to a shop
	FindByOrderNumber(ctx context.Context, shopID uuid.UUID, orderNumber string) (*Order, error)
	// FindAll retrieves orders for a shop with pagination
	FindAll(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// ExistsByOrderNumber reports whether an order number is taken in a shop
	ExistsByOrderNumber(ctx context.Context, shopID uuid.UUID, orderNumber string) (bool, error)
}
