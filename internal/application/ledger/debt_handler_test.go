package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appledger "github.com/retailpos/backend/internal/application/ledger"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	ledgerdomain "github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	db          *gorm.DB
	handler     *appledger.DebtHandler
	accountRepo *persistence.GormCustomerAccountRepository
	debtRepo    *persistence.GormDebtTransactionRepository
	failureRepo *persistence.GormFailureRepository
	shopID      uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CustomerAccountModel{},
		&models.DebtTransactionModel{},
		&models.ProcessedOrderModel{},
		&models.FailureModel{},
	))

	failureRepo := persistence.NewGormFailureRepository(db)
	handler := appledger.NewDebtHandler(
		persistence.NewGormLedgerTransactionScope(db),
		failureRepo,
		zap.NewNop(),
	)

	return &ledgerFixture{
		db:          db,
		handler:     handler,
		accountRepo: persistence.NewGormCustomerAccountRepository(db),
		debtRepo:    persistence.NewGormDebtTransactionRepository(db),
		failureRepo: failureRepo,
		shopID:      uuid.New(),
	}
}

func (f *ledgerFixture) addAccount(t *testing.T, name string) *ledgerdomain.CustomerAccount {
	t.Helper()

	account, err := ledgerdomain.NewCustomerAccount(f.shopID, name, "0901234567")
	require.NoError(t, err)
	require.NoError(t, f.accountRepo.Save(context.Background(), account))
	return account
}

func (f *ledgerFixture) debtSaleEvent(t *testing.T, customerID uuid.UUID, total, paid int64) *ordering.OrderCreatedEvent {
	t.Helper()

	order, err := ordering.NewOrder(f.shopID, "HD-"+uuid.New().String()[:8])
	require.NoError(t, err)
	require.NoError(t, order.SetCustomer(customerID, "Customer"))
	_, err = order.AddItem(uuid.New(), "Rice", "bao", decimal.NewFromInt(1),
		valueobject.NewMoneyVND(decimal.NewFromInt(total)))
	require.NoError(t, err)
	require.NoError(t, order.SetPayment(decimal.NewFromInt(paid), ordering.PaymentMethodDebt, true))
	require.NoError(t, order.Complete())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0].(*ordering.OrderCreatedEvent)
}

func (f *ledgerFixture) balanceOf(t *testing.T, customerID uuid.UUID) decimal.Decimal {
	t.Helper()

	account, err := f.accountRepo.FindByID(context.Background(), f.shopID, customerID)
	require.NoError(t, err)
	return account.DebtBalance
}

func TestDebtHandler_BooksOutstandingAmount(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	account := fix.addAccount(t, "Chi Lan")
	event := fix.debtSaleEvent(t, account.ID, 500000, 200000)

	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(300000).Equal(fix.balanceOf(t, account.ID)))

	transactions, total, err := fix.debtRepo.FindByCustomer(ctx, fix.shopID, account.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, transactions, 1)

	// Balance always equals the signed sum of the transaction log
	sum, err := fix.debtRepo.SumByCustomer(ctx, fix.shopID, account.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(fix.balanceOf(t, account.ID)))
}

func TestDebtHandler_RedeliveryBooksOnce(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	account := fix.addAccount(t, "Chi Lan")
	event := fix.debtSaleEvent(t, account.ID, 500000, 200000)

	require.NoError(t, fix.handler.Handle(ctx, event))
	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(300000).Equal(fix.balanceOf(t, account.ID)))

	_, total, err := fix.debtRepo.FindByCustomer(ctx, fix.shopID, account.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestDebtHandler_SkipsNonDebtOrders(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	account := fix.addAccount(t, "Chi Lan")

	order, err := ordering.NewOrder(fix.shopID, "HD-CASH-01")
	require.NoError(t, err)
	require.NoError(t, order.SetCustomer(account.ID, "Chi Lan"))
	_, err = order.AddItem(uuid.New(), "Rice", "bao", decimal.NewFromInt(1),
		valueobject.NewMoneyVND(decimal.NewFromInt(500000)))
	require.NoError(t, err)
	require.NoError(t, order.SetPayment(decimal.NewFromInt(500000), ordering.PaymentMethodCash, false))
	require.NoError(t, order.Complete())
	event := order.GetDomainEvents()[0].(*ordering.OrderCreatedEvent)

	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, fix.balanceOf(t, account.ID).IsZero())

	// No marker either: nothing was booked, so there is nothing to protect
	exists, err := persistence.NewGormProcessedOrderRepository(fix.db).
		Exists(ctx, fulfillment.ConsumerLedger, fix.shopID, event.OrderID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDebtHandler_SkipsFullyPaidDebtSales(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	account := fix.addAccount(t, "Chi Lan")
	event := fix.debtSaleEvent(t, account.ID, 500000, 500000)

	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, fix.balanceOf(t, account.ID).IsZero())
}

func TestDebtHandler_UnknownCustomerIsPermanent(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	event := fix.debtSaleEvent(t, uuid.New(), 500000, 0)

	require.NoError(t, fix.handler.Handle(ctx, event))

	failures, err := fix.failureRepo.FindByOrder(ctx, fix.shopID, event.OrderID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "UNKNOWN_CUSTOMER", failures[0].ErrorCode)
}

func TestDebtHandler_AccumulatesAcrossOrders(t *testing.T) {
	fix := newLedgerFixture(t)
	ctx := context.Background()

	account := fix.addAccount(t, "Chi Lan")

	require.NoError(t, fix.handler.Handle(ctx, fix.debtSaleEvent(t, account.ID, 500000, 200000)))
	require.NoError(t, fix.handler.Handle(ctx, fix.debtSaleEvent(t, account.ID, 100000, 0)))

	assert.True(t, decimal.NewFromInt(400000).Equal(fix.balanceOf(t, account.ID)))

	sum, err := fix.debtRepo.SumByCustomer(ctx, fix.shopID, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400000).Equal(sum))
}
