package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"itemhub-rest-api/internal/config"
	"itemhub-rest-api/internal/handler"
	"itemhub-rest-api/internal/repository"
	"itemhub-rest-api/internal/router"
	"itemhub-rest-api/internal/service"
	"itemhub-rest-api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := logger.New(cfg.App.Name, cfg.App.Debug)
	defer log.Sync()

	log.Info("starting itemhub API",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	// Initialize item repository based on config
	var itemRepo repository.ItemRepository
	var err error
	switch cfg.Database.Type {
	case "postgres", "postgresql":
		itemRepo, err = repository.NewPostgresItemRepository(cfg.Database.PostgresDSN())
		if err != nil {
			log.Fatal("failed to initialize PostgreSQL", zap.Error(err))
		}
		log.Info("PostgreSQL item repository initialized")
	case "mysql":
		itemRepo, err = repository.NewMySQLItemRepository(cfg.Database.MySQLDSN())
		if err != nil {
			log.Fatal("failed to initialize MySQL", zap.Error(err))
		}
		log.Info("MySQL item repository initialized")
	default: // sqlite
		itemRepo, err = repository.NewSQLiteItemRepository(cfg.Database.Path)
		if err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		log.Info("SQLite item repository initialized", zap.String("path", cfg.Database.Path))
	}
	defer itemRepo.Close()

	// Initialize service and handlers
	itemService := service.NewItemService(itemRepo)
	itemHandler := handler.NewItemHandler(itemService, log)
	healthHandler := handler.NewHealthHandler(itemService, cfg.App.Environment, cfg.App.Version)

	// Create router
	r := router.New(router.Config{
		ItemHandler:   itemHandler,
		HealthHandler: healthHandler,
		Logger:        log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("address", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
}
