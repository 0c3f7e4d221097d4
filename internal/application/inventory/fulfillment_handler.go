package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FulfillmentConfig carries the policy knobs for the inventory consumer
type FulfillmentConfig struct {
	// AllowBackorders lets deductions drive stock below zero. Off by
	// default: insufficient stock is then a permanent rejection.
	AllowBackorders bool
}

// FulfillmentHandler consumes order.created events and deducts stock.
// Per event it runs one transaction: marker check, per-line unit conversion
// and conditional deduction, movement audit rows, marker insert. Permanent
// rejections roll the whole order back, are recorded as failures, and are
// acked; transient errors propagate so the broker redelivers.
type FulfillmentHandler struct {
	scope       TransactionScope
	failureRepo fulfillment.FailureRepository
	config      FulfillmentConfig
	logger      *zap.Logger
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(
	scope TransactionScope,
	failureRepo fulfillment.FailureRepository,
	config FulfillmentConfig,
	logger *zap.Logger,
) *FulfillmentHandler {
	return &FulfillmentHandler{
		scope:       scope,
		failureRepo: failureRepo,
		config:      config,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *FulfillmentHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderCreated}
}

// Handle processes an order.created event. A nil return means the delivery
// is settled (fulfilled, duplicate, or permanently rejected and recorded);
// a non-nil return means the delivery must be retried.
func (h *FulfillmentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderCreated, event.EventType())
	}
	shopID := created.ShopID()

	err := h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.MarkerRepo().Exists(ctx, fulfillment.ConsumerInventory, shopID, created.OrderID)
		if err != nil {
			return err
		}
		if exists {
			h.logger.Debug("Order already fulfilled, skipping",
				zap.String("order_id", created.OrderID.String()),
			)
			return nil
		}

		movements := make([]*catalog.StockMovement, 0, len(created.Items))
		for _, item := range created.Items {
			baseQuantity, err := h.resolveBaseQuantity(ctx, repos, created, item)
			if err != nil {
				return err
			}

			if err := repos.ProductRepo().DeductStock(ctx, shopID, item.ProductID, baseQuantity, h.config.AllowBackorders); err != nil {
				switch {
				case errors.Is(err, shared.ErrInsufficientStock):
					return shared.NewPermanentError(fmt.Errorf("product %s: %w", item.ProductID, err))
				case errors.Is(err, shared.ErrNotFound):
					return shared.NewPermanentError(fmt.Errorf("product %s: %w", item.ProductID, shared.ErrUnknownProduct))
				default:
					return err
				}
			}

			movement, err := catalog.NewSaleMovement(shopID, item.ProductID, created.OrderID, baseQuantity, created.OrderNumber)
			if err != nil {
				return shared.NewPermanentError(err)
			}
			movements = append(movements, movement)
		}

		if err := repos.MovementRepo().Save(ctx, movements...); err != nil {
			return err
		}

		marker, err := fulfillment.NewProcessedOrder(fulfillment.ConsumerInventory, created.OrderID, shopID, created.EventID())
		if err != nil {
			return err
		}
		return repos.MarkerRepo().Save(ctx, marker)
	})

	return h.settle(ctx, created, err)
}

// resolveBaseQuantity converts a sale-unit line quantity into the product's
// base unit. Unknown products are permanent rejections; a missing conversion
// entry for a non-base unit means factor 1, per how shops configure only the
// units that differ.
func (h *FulfillmentHandler) resolveBaseQuantity(
	ctx context.Context,
	repos TransactionalRepositories,
	created *ordering.OrderCreatedEvent,
	item ordering.OrderItemInfo,
) (decimal.Decimal, error) {
	shopID := created.ShopID()

	product, err := repos.ProductRepo().FindByID(ctx, shopID, item.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, shared.NewPermanentError(
				fmt.Errorf("product %s: %w", item.ProductID, shared.ErrUnknownProduct))
		}
		return decimal.Zero, err
	}

	if product.IsBaseUnit(item.Unit) {
		return item.Quantity.Round(4), nil
	}

	conversion, err := repos.ConversionRepo().FindByProductAndUnit(ctx, shopID, item.ProductID, item.Unit)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return item.Quantity.Round(4), nil
		}
		return decimal.Zero, err
	}
	return conversion.ConvertToBaseUnit(item.Quantity), nil
}

// settle decides what the broker should see for the delivery: nil (ack) for
// success, duplicates, and recorded permanent failures; the error itself
// (no ack, redelivery) for everything transient.
func (h *FulfillmentHandler) settle(ctx context.Context, created *ordering.OrderCreatedEvent, err error) error {
	switch {
	case err == nil:
		h.logger.Info("Order fulfilled",
			zap.String("order_id", created.OrderID.String()),
			zap.String("order_number", created.OrderNumber),
			zap.Int("items", len(created.Items)),
		)
		return nil

	case errors.Is(err, shared.ErrAlreadyExists):
		// Lost the marker race against a concurrent delivery of the same
		// event. The winner's commit stands; ours was rolled back.
		h.logger.Debug("Duplicate delivery lost marker race",
			zap.String("order_id", created.OrderID.String()),
		)
		return nil

	case shared.IsPermanent(err):
		if recordErr := h.recordFailure(ctx, created, err); recordErr != nil {
			h.logger.Error("Failed to record permanent failure, requesting redelivery",
				zap.String("order_id", created.OrderID.String()),
				zap.Error(recordErr),
			)
			return recordErr
		}
		h.logger.Warn("Order permanently rejected",
			zap.String("order_id", created.OrderID.String()),
			zap.String("order_number", created.OrderNumber),
			zap.Error(err),
		)
		return nil

	default:
		h.logger.Error("Transient fulfillment failure",
			zap.String("order_id", created.OrderID.String()),
			zap.Error(err),
		)
		return err
	}
}

func (h *FulfillmentHandler) recordFailure(ctx context.Context, created *ordering.OrderCreatedEvent, cause error) error {
	payload, marshalErr := json.Marshal(created)
	if marshalErr != nil {
		payload = nil
	}

	failure, err := fulfillment.NewFailure(fulfillment.ConsumerInventory, created.OrderID, created.ShopID(),
		created.EventID(), created.EventType(), cause, payload)
	if err != nil {
		return err
	}
	return h.failureRepo.Save(ctx, failure)
}

var _ shared.EventHandler = (*FulfillmentHandler)(nil)
