package event

import (
	"github.com/retailpos/backend/internal/domain/ordering"
)

// RegisterDomainEvents registers every domain event type with the
// serializer so outbox entries and broker messages can be decoded.
// Any event raised by an aggregate must be registered here, otherwise
// the outbox processor will dead-letter it as an unknown type.
func RegisterDomainEvents(serializer *EventSerializer) {
	serializer.Register(ordering.EventTypeOrderCreated, &ordering.OrderCreatedEvent{})
}
