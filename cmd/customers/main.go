package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/config"
	"github.com/georgemunganga/printa-shop/internal/modules/customer"
	"github.com/georgemunganga/printa-shop/internal/platform/database"
	"github.com/georgemunganga/printa-shop/internal/platform/logger"
	"github.com/georgemunganga/printa-shop/internal/platform/server"
	"github.com/georgemunganga/printa-shop/internal/platform/tracing"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

func main() {
	cfg := config.Load(config.Customers)

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
	var repo customer.Repository
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo = customer.NewMemoryRepository()
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
		if err := customer.EnsureSchema(ctx, db); err != nil {
			appLogger.Fatal("could not create schema", zap.Error(err))
		}
		repo = customer.NewPostgresRepository(db)
	}

	// ── Router ──────────────────────────────────────────────
	router := web.NewRouter(appLogger)
	customer.NewHandler(customer.NewService(repo, appLogger), appLogger).RegisterRoutes(router)

	appLogger.Info("customer service starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Database.Driver))
	if err := server.Run(ctx, server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, appLogger); err != nil {
		appLogger.Fatal("server failed", zap.Error(err))
	}
}
