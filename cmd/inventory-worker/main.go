package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appinventory "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ordering"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	applogger "github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
)

// The inventory worker consumes order.created events from Kafka and deducts
// stock. It runs under its own consumer group, so it can be scaled and
// restarted independently of the API server and the ledger worker.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		fmt.Fprintln(os.Stderr, "kafka is disabled; the inventory worker only runs against a broker")
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
	log = log.Named("inventory-worker")

	gormLogger := applogger.NewGormLogger(log, applogger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	serializer := event.NewEventSerializer()
	event.RegisterDomainEvents(serializer)

	handler := appinventory.NewFulfillmentHandler(
		persistence.NewGormFulfillmentTransactionScope(db.DB),
		persistence.NewGormFailureRepository(db.DB),
		appinventory.FulfillmentConfig{AllowBackorders: cfg.Inventory.AllowBackorders},
		log,
	)

	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idemStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}

	consumer := event.NewKafkaConsumer(event.KafkaConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   ordering.EventTypeOrderCreated,
		GroupID: fulfillment.ConsumerInventory,
	}, serializer, event.NewIdempotentHandler(handler, idemStore, log), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal("failed to start consumer", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := consumer.Stop(shutdownCtx); err != nil {
		log.Error("consumer shutdown failed", zap.Error(err))
	}
	log.Info("inventory worker stopped")
}
