package fulfillment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Failure records an event a consumer permanently rejected. The original
// payload is kept so an operator can inspect and, after fixing the cause,
// replay the order by hand. Transient failures never land here; they are
// redelivered by the broker instead.
type Failure struct {
	ID         uuid.UUID
	Consumer   string
	OrderID    uuid.UUID
	ShopID     uuid.UUID
	EventID    uuid.UUID
	EventType  string
	ErrorCode  string
	ErrorMsg   string
	Payload    []byte
	OccurredAt time.Time
}

// NewFailure creates a failure record for a permanently rejected event
func NewFailure(consumer string, orderID, shopID, eventID uuid.UUID, eventType string, cause error, payload []byte) (*Failure, error) {
	if consumer == "" {
		return nil, shared.NewDomainError("INVALID_CONSUMER", "Consumer name cannot be empty")
	}
	if cause == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Failure cause cannot be nil")
	}

	code := "PERMANENT_FAILURE"
	var domainErr *shared.DomainError
	if errors.As(cause, &domainErr) {
		code = domainErr.Code
	}

	return &Failure{
		ID:         uuid.New(),
		Consumer:   consumer,
		OrderID:    orderID,
		ShopID:     shopID,
		EventID:    eventID,
		EventType:  eventType,
		ErrorCode:  code,
		ErrorMsg:   cause.Error(),
		Payload:    payload,
		OccurredAt: time.Now(),
	}, nil
}
