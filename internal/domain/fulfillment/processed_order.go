package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Consumer names used as the scope of processed-order markers. Each consumer
// tracks its own completions, so the same order can be processed once by
// inventory and once by the ledger.
const (
	ConsumerInventory = "inventory"
	ConsumerLedger    = "ledger"
)

// ProcessedOrder marks an order as fully handled by one consumer. The marker
// is written in the same transaction as the consumer's side effects, which is
// what makes redelivered events harmless: a second delivery sees the marker
// and does nothing.
type ProcessedOrder struct {
	ID          uuid.UUID
	Consumer    string
	OrderID     uuid.UUID
	ShopID      uuid.UUID
	EventID     uuid.UUID
	ProcessedAt time.Time
}

// NewProcessedOrder creates a marker for a consumer/order pair
func NewProcessedOrder(consumer string, orderID, shopID, eventID uuid.UUID) (*ProcessedOrder, error) {
	if consumer == "" {
		return nil, shared.NewDomainError("INVALID_CONSUMER", "Consumer name cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	return &ProcessedOrder{
		ID:          uuid.New(),
		Consumer:    consumer,
		OrderID:     orderID,
		ShopID:      shopID,
		EventID:     eventID,
		ProcessedAt: time.Now(),
	}, nil
}
