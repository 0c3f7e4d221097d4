package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appevent "github.com/retailpos/backend/internal/application/event"
	appfulfillment "github.com/retailpos/backend/internal/application/fulfillment"
	appinventory "github.com/retailpos/backend/internal/application/inventory"
	appledger "github.com/retailpos/backend/internal/application/ledger"
	appordering "github.com/retailpos/backend/internal/application/ordering"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	applogger "github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogger := applogger.NewGormLogger(log, applogger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	serializer := event.NewEventSerializer()
	event.RegisterDomainEvents(serializer)

	outboxRepo := event.NewGormOutboxRepository(db.DB)
	failureRepo := persistence.NewGormFailureRepository(db.DB)

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderRepo.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

	orderService := appordering.NewOrderService(orderRepo, log)
	outboxService := appevent.NewOutboxService(outboxRepo, log)
	failureService := appfulfillment.NewFailureService(failureRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox entries flow to Kafka in production. With Kafka disabled the
	// in-memory bus dispatches straight to the consumers, so the whole
	// pipeline runs inside this one process.
	var publisher shared.EventPublisher
	var stopTransport func(context.Context)

	if cfg.Kafka.Enabled {
		kafkaPublisher := event.NewKafkaPublisher(event.KafkaPublisherConfig{
			Brokers: cfg.Kafka.Brokers,
		}, serializer, log)
		publisher = kafkaPublisher
		stopTransport = func(context.Context) {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("failed to close kafka publisher", zap.Error(err))
			}
		}
		log.Info("event transport: kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		bus := event.NewInMemoryEventBus(log)

		storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
		idemStore, err := storeFactory.CreateStore()
		if err != nil {
			log.Fatal("failed to create idempotency store", zap.Error(err))
		}

		fulfillmentHandler := appinventory.NewFulfillmentHandler(
			persistence.NewGormFulfillmentTransactionScope(db.DB),
			failureRepo,
			appinventory.FulfillmentConfig{AllowBackorders: cfg.Inventory.AllowBackorders},
			log.Named("inventory"),
		)
		debtHandler := appledger.NewDebtHandler(
			persistence.NewGormLedgerTransactionScope(db.DB),
			failureRepo,
			log.Named("ledger"),
		)

		bus.Subscribe(event.NewIdempotentHandler(fulfillmentHandler, idemStore, log), fulfillmentHandler.EventTypes()...)
		bus.Subscribe(event.NewIdempotentHandler(debtHandler, idemStore, log), debtHandler.EventTypes()...)

		if err := bus.Start(ctx); err != nil {
			log.Fatal("failed to start event bus", zap.Error(err))
		}
		publisher = bus
		stopTransport = func(shutdownCtx context.Context) {
			if err := bus.Stop(shutdownCtx); err != nil {
				log.Error("failed to stop event bus", zap.Error(err))
			}
		}
		log.Info("event transport: in-memory bus")
	}

	var processor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		processor = event.NewOutboxProcessor(outboxRepo, publisher, serializer, processorConfig, log)
		if err := processor.Start(ctx); err != nil {
			log.Fatal("failed to start outbox processor", zap.Error(err))
		}
	}

	engine := buildEngine(cfg, log)

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	registerRoutes(engine,
		handler.NewOrderHandler(orderService),
		handler.NewFailureHandler(failureService),
		handler.NewOutboxHandler(outboxService),
		systemHandler,
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	if processor != nil {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("outbox processor shutdown failed", zap.Error(err))
		}
	}
	stopTransport(shutdownCtx)
	cancel()

	log.Info("server stopped")
}

func buildEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(applogger.Recovery(log))
	engine.Use(applogger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(4 << 20))

	if cfg.App.Env == "production" {
		limiter := middleware.NewRateLimiter(300, time.Minute)
		engine.Use(middleware.RateLimit(limiter))
	}

	return engine
}

func registerRoutes(
	engine *gin.Engine,
	orderHandler *handler.OrderHandler,
	failureHandler *handler.FailureHandler,
	outboxHandler *handler.OutboxHandler,
	systemHandler *handler.SystemHandler,
) {
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	orders := router.NewDomainGroup("orders", "/orders")
	orders.Use(middleware.ShopMiddleware())
	orders.POST("", orderHandler.Submit)
	orders.GET("", orderHandler.List)
	orders.GET("/number/:number", orderHandler.GetByOrderNumber)
	orders.GET("/:id", orderHandler.GetByID)

	fulfillment := router.NewDomainGroup("fulfillment", "/fulfillment")
	fulfillment.Use(middleware.ShopMiddleware())
	fulfillment.GET("/failures", failureHandler.List)
	fulfillment.GET("/failures/order/:id", failureHandler.ListByOrder)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/info", systemHandler.GetSystemInfo)

	outbox := system.Group("outbox", "/outbox")
	outbox.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outbox.GET("/stats", outboxHandler.GetStats)
	outbox.GET("/:id", outboxHandler.GetEntry)
	outbox.POST("/:id/retry", outboxHandler.RetryDeadEntry)
	outbox.POST("/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(orders).Register(fulfillment).Register(system)
	r.Setup()
}
