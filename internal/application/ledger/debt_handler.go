package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DebtHandler consumes order.created events and books the unpaid part of
// debt sales against the customer's account. Orders that leave no debt are
// acknowledged without touching the ledger. The balance change, the
// immutable debt transaction, and the processed-order marker commit
// together, so the account balance always equals the sum of its
// transactions.
type DebtHandler struct {
	scope       TransactionScope
	failureRepo fulfillment.FailureRepository
	logger      *zap.Logger
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(
	scope TransactionScope,
	failureRepo fulfillment.FailureRepository,
	logger *zap.Logger,
) *DebtHandler {
	return &DebtHandler{
		scope:       scope,
		failureRepo: failureRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DebtHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderCreated}
}

// Handle processes an order.created event. Nil means the delivery is
// settled; non-nil requests redelivery.
func (h *DebtHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderCreated, event.EventType())
	}

	if !created.IsDebtSale || created.CustomerID == nil {
		return nil
	}
	outstanding := created.OutstandingAmount()
	if !outstanding.IsPositive() {
		return nil
	}

	shopID := created.ShopID()
	customerID := *created.CustomerID

	err := h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.MarkerRepo().Exists(ctx, fulfillment.ConsumerLedger, shopID, created.OrderID)
		if err != nil {
			return err
		}
		if exists {
			h.logger.Debug("Debt already recorded, skipping",
				zap.String("order_id", created.OrderID.String()),
			)
			return nil
		}

		account, err := repos.AccountRepo().FindByID(ctx, shopID, customerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewPermanentError(
					fmt.Errorf("customer %s: %w", customerID, shared.ErrUnknownCustomer))
			}
			return err
		}

		description := fmt.Sprintf("Unpaid balance for order %s", created.OrderNumber)
		debtTx, err := account.IncreaseDebt(outstanding, created.OrderID, created.OrderNumber, description)
		if err != nil {
			return shared.NewPermanentError(err)
		}

		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.DebtRepo().Save(ctx, debtTx); err != nil {
			return err
		}

		marker, err := fulfillment.NewProcessedOrder(fulfillment.ConsumerLedger, created.OrderID, shopID, created.EventID())
		if err != nil {
			return err
		}
		return repos.MarkerRepo().Save(ctx, marker)
	})

	switch {
	case err == nil:
		h.logger.Info("Debt recorded",
			zap.String("order_id", created.OrderID.String()),
			zap.String("customer_id", customerID.String()),
			zap.String("amount", outstanding.String()),
		)
		return nil

	case errors.Is(err, shared.ErrAlreadyExists):
		// Lost the marker race against a concurrent delivery; the winner's
		// commit stands and ours was rolled back.
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
		h.logger.Warn("Debt recording permanently rejected",
			zap.String("order_id", created.OrderID.String()),
			zap.Error(err),
		)
		return nil

	default:
		h.logger.Error("Transient ledger failure",
			zap.String("order_id", created.OrderID.String()),
			zap.Error(err),
		)
		return err
	}
}

func (h *DebtHandler) recordFailure(ctx context.Context, created *ordering.OrderCreatedEvent, cause error) error {
	payload, marshalErr := json.Marshal(created)
	if marshalErr != nil {
		payload = nil
	}

	failure, err := fulfillment.NewFailure(fulfillment.ConsumerLedger, created.OrderID, created.ShopID(),
		created.EventID(), created.EventType(), cause, payload)
	if err != nil {
		return err
	}
	return h.failureRepo.Save(ctx, failure)
}

var _ shared.EventHandler = (*DebtHandler)(nil)
