package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/config"
	"github.com/georgemunganga/printa-shop/internal/modules/sale"
	"github.com/georgemunganga/printa-shop/internal/platform/database"
	"github.com/georgemunganga/printa-shop/internal/platform/events"
	"github.com/georgemunganga/printa-shop/internal/platform/idempotency"
	"github.com/georgemunganga/printa-shop/internal/platform/logger"
	"github.com/georgemunganga/printa-shop/internal/platform/server"
	"github.com/georgemunganga/printa-shop/internal/platform/tracing"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

func main() {
	cfg := config.Load(config.Sales)

	appLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: cfg.Logger.Development,
	}, string(cfg.Service))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()
	tracing.Setup()

	ctx, cancel := server.WithSignals(context.Background())
	defer cancel()

	// ── Storage ─────────────────────────────────────────────
	var repo sale.Repository
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo = sale.NewMemoryRepository()
		appLogger.Warn("using in-memory storage; data is lost on restart")
	default:
		db, err := database.Connect(ctx, database.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("could not connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := sale.EnsureSchema(ctx, db); err != nil {
			appLogger.Fatal("could not create schema", zap.Error(err))
		}
		repo = sale.NewPostgresRepository(db)
	}

	// ── Events ──────────────────────────────────────────────
	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		appLogger.Info("publishing sale events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	// ── Downstream services ─────────────────────────────────
	hc := sale.NewHTTPClient(cfg.Services.Timeout)
	svc := sale.NewService(
		sale.NewInventoryClient(cfg.Services.InventoryURL, hc),
		sale.NewCustomerClient(cfg.Services.CustomerURL, hc),
		repo,
		publisher,
		appLogger,
	)
	handler := sale.NewHandler(svc, appLogger)

	// ── Idempotency ─────────────────────────────────────────
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Warn("redis unreachable; sales accepted without idempotency until it returns", zap.Error(err))
		}
		handler.WithIdempotency(idempotency.NewStore(rdb, cfg.Redis.IdempotencyTTL, "idem:sale:"))
	}

	// ── Router ──────────────────────────────────────────────
	router := web.NewRouter(appLogger)
	handler.RegisterRoutes(router)

	appLogger.Info("sales service starting",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Database.Driver),
		zap.String("inventory_url", cfg.Services.InventoryURL),
		zap.String("customer_url", cfg.Services.CustomerURL))
	if err := server.Run(ctx, server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, appLogger); err != nil {
		appLogger.Fatal("server failed", zap.Error(err))
	}
}
