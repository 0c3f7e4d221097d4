package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessedOrder(t *testing.T) {
	t.Run("creates marker", func(t *testing.T) {
		orderID := uuid.New()
		marker, err := NewProcessedOrder(ConsumerInventory, orderID, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, ConsumerInventory, marker.Consumer)
		assert.Equal(t, orderID, marker.OrderID)
		assert.False(t, marker.ProcessedAt.IsZero())
	})

	t.Run("rejects empty consumer", func(t *testing.T) {
		_, err := NewProcessedOrder("", uuid.New(), uuid.New(), uuid.New())
		require.Error(t, err)
	})

	t.Run("rejects nil order", func(t *testing.T) {
		_, err := NewProcessedOrder(ConsumerLedger, uuid.Nil, uuid.New(), uuid.New())
		require.Error(t, err)
	})
}

func TestNewFailure(t *testing.T) {
	t.Run("extracts domain error code", func(t *testing.T) {
		cause := shared.NewPermanentError(shared.ErrInsufficientStock)
		f, err := NewFailure(ConsumerInventory, uuid.New(), uuid.New(), uuid.New(),
			"order.created", cause, []byte(`{"order_id":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", f.ErrorCode)
		assert.Equal(t, cause.Error(), f.ErrorMsg)
		assert.NotEmpty(t, f.Payload)
	})

	t.Run("falls back to generic code for plain errors", func(t *testing.T) {
		f, err := NewFailure(ConsumerLedger, uuid.New(), uuid.New(), uuid.New(),
			"order.created", assert.AnError, nil)
		require.NoError(t, err)
		assert.Equal(t, "PERMANENT_FAILURE", f.ErrorCode)
	})

	t.Run("rejects nil cause", func(t *testing.T) {
		_, err := NewFailure(ConsumerInventory, uuid.New(), uuid.New(), uuid.New(), "order.created", nil, nil)
		require.Error(t, err)
	})
}
