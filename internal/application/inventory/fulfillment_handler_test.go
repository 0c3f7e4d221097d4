package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinv "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ordering"
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

type fulfillmentFixture struct {
	db          *gorm.DB
	handler     *appinv.FulfillmentHandler
	productRepo *persistence.GormProductRepository
	failureRepo *persistence.GormFailureRepository
	markerRepo  *persistence.GormProcessedOrderRepository
	shopID      uuid.UUID
}

func newFulfillmentFixture(t *testing.T, config appinv.FulfillmentConfig) *fulfillmentFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProductModel{},
		&models.UnitConversionModel{},
		&models.StockMovementModel{},
		&models.ProcessedOrderModel{},
		&models.FailureModel{},
	))

	failureRepo := persistence.NewGormFailureRepository(db)
	handler := appinv.NewFulfillmentHandler(
		persistence.NewGormFulfillmentTransactionScope(db),
		failureRepo,
		config,
		zap.NewNop(),
	)

	return &fulfillmentFixture{
		db:          db,
		handler:     handler,
		productRepo: persistence.NewGormProductRepository(db),
		failureRepo: failureRepo,
		markerRepo:  persistence.NewGormProcessedOrderRepository(db),
		shopID:      uuid.New(),
	}
}

func (f *fulfillmentFixture) addProduct(t *testing.T, code, baseUnit string, stock int64) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(f.shopID, code, code, baseUnit)
	require.NoError(t, err)
	require.NoError(t, product.AddStock(decimal.NewFromInt(stock)))
	require.NoError(t, f.productRepo.Save(context.Background(), product))
	return product
}

func (f *fulfillmentFixture) addConversion(t *testing.T, productID uuid.UUID, unit string, factor int64) {
	t.Helper()

	conversion, err := catalog.NewUnitConversion(f.shopID, productID, unit, decimal.NewFromInt(factor))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUnitConversionRepository(f.db).Save(context.Background(), conversion))
}

func (f *fulfillmentFixture) orderEvent(t *testing.T, lines ...orderLine) *ordering.OrderCreatedEvent {
	t.Helper()

	order, err := ordering.NewOrder(f.shopID, "HD-"+uuid.New().String()[:8])
	require.NoError(t, err)
	for _, line := range lines {
		_, err := order.AddItem(line.productID, "Item", line.unit, line.quantity,
			valueobject.NewMoneyVND(decimal.NewFromInt(10000)))
		require.NoError(t, err)
	}
	require.NoError(t, order.Complete())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0].(*ordering.OrderCreatedEvent)
}

func (f *fulfillmentFixture) stockOf(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()

	product, err := f.productRepo.FindByID(context.Background(), f.shopID, productID)
	require.NoError(t, err)
	return product.StockQuantity
}

type orderLine struct {
	productID uuid.UUID
	unit      string
	quantity  decimal.Decimal
}

func TestFulfillmentHandler_DeductsStock(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	product := fix.addProduct(t, "COCA", "chai", 100)
	event := fix.orderEvent(t, orderLine{product.ID, "chai", decimal.NewFromInt(2)})

	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(98).Equal(fix.stockOf(t, product.ID)))

	movements, err := persistence.NewGormStockMovementRepository(fix.db).FindByOrder(ctx, fix.shopID, event.OrderID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, decimal.NewFromInt(-2).Equal(movements[0].Quantity))

	exists, err := fix.markerRepo.Exists(ctx, fulfillment.ConsumerInventory, fix.shopID, event.OrderID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFulfillmentHandler_RedeliveryIsNoOp(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	product := fix.addProduct(t, "COCA", "chai", 100)
	event := fix.orderEvent(t, orderLine{product.ID, "chai", decimal.NewFromInt(2)})

	require.NoError(t, fix.handler.Handle(ctx, event))
	require.NoError(t, fix.handler.Handle(ctx, event))

	// Deducted once, not twice
	assert.True(t, decimal.NewFromInt(98).Equal(fix.stockOf(t, product.ID)))

	movements, err := persistence.NewGormStockMovementRepository(fix.db).FindByOrder(ctx, fix.shopID, event.OrderID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestFulfillmentHandler_ConvertsSaleUnits(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	product := fix.addProduct(t, "COCA", "chai", 100)
	fix.addConversion(t, product.ID, "thung", 24)

	event := fix.orderEvent(t, orderLine{product.ID, "thung", decimal.NewFromInt(2)})
	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(52).Equal(fix.stockOf(t, product.ID)))
}

func TestFulfillmentHandler_MissingConversionDeductsAsIs(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	product := fix.addProduct(t, "RICE", "bao", 50)

	event := fix.orderEvent(t, orderLine{product.ID, "tui", decimal.NewFromInt(3)})
	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(47).Equal(fix.stockOf(t, product.ID)))
}

func TestFulfillmentHandler_InsufficientStockRollsBackAllLines(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	plenty := fix.addProduct(t, "COCA", "chai", 100)
	scarce := fix.addProduct(t, "PEPSI", "chai", 1)

	event := fix.orderEvent(t,
		orderLine{plenty.ID, "chai", decimal.NewFromInt(2)},
		orderLine{scarce.ID, "chai", decimal.NewFromInt(5)},
	)

	// Permanent rejection is settled, not retried
	require.NoError(t, fix.handler.Handle(ctx, event))

	// Neither line was deducted
	assert.True(t, decimal.NewFromInt(100).Equal(fix.stockOf(t, plenty.ID)))
	assert.True(t, decimal.NewFromInt(1).Equal(fix.stockOf(t, scarce.ID)))

	// No marker: the order stays unfulfilled on record
	exists, err := fix.markerRepo.Exists(ctx, fulfillment.ConsumerInventory, fix.shopID, event.OrderID)
	require.NoError(t, err)
	assert.False(t, exists)

	failures, err := fix.failureRepo.FindByOrder(ctx, fix.shopID, event.OrderID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "INSUFFICIENT_STOCK", failures[0].ErrorCode)
	assert.NotEmpty(t, failures[0].Payload)
}

func TestFulfillmentHandler_BackordersDriveStockNegative(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{AllowBackorders: true})
	ctx := context.Background()

	product := fix.addProduct(t, "COCA", "chai", 1)
	event := fix.orderEvent(t, orderLine{product.ID, "chai", decimal.NewFromInt(5)})

	require.NoError(t, fix.handler.Handle(ctx, event))

	assert.True(t, decimal.NewFromInt(-4).Equal(fix.stockOf(t, product.ID)))
}

func TestFulfillmentHandler_UnknownProductIsPermanent(t *testing.T) {
	fix := newFulfillmentFixture(t, appinv.FulfillmentConfig{})
	ctx := context.Background()

	event := fix.orderEvent(t, orderLine{uuid.New(), "chai", decimal.NewFromInt(1)})

	require.NoError(t, fix.handler.Handle(ctx, event))

	failures, err := fix.failureRepo.FindByOrder(ctx, fix.shopID, event.OrderID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "UNKNOWN_PRODUCT", failures[0].ErrorCode)
}
