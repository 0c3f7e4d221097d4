package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProcessedOrderRepository defines the persistence interface for
// processed-order markers
type ProcessedOrderRepository interface {
	// Save persists a marker. Saving a duplicate (consumer, order, shop)
	// yields ErrAlreadyExists.
	Save(ctx context.Context, marker *ProcessedOrder) error
	// Exists reports whether a marker exists for the consumer/order pair
	Exists(ctx context.Context, consumer string, shopID, orderID uuid.UUID) (bool, error)
}

// FailureRepository defines the persistence interface for failure records
type FailureRepository interface {
	// Save persists a failure record
	Save(ctx context.Context, failure *Failure) error
	// FindAll lists failure records for a shop, newest first
	FindAll(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Failure, int64, error)
	// FindByOrder lists failure records for an order
	FindByOrder(ctx context.Context, shopID, orderID uuid.UUID) ([]Failure, error)
}
