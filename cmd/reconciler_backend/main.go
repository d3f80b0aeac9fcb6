package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/transfer_reconciler/internal/app"
	"github.com/SscSPs/transfer_reconciler/internal/core/services"
	"github.com/SscSPs/transfer_reconciler/internal/handlers"
	"github.com/SscSPs/transfer_reconciler/internal/middleware"
	"github.com/SscSPs/transfer_reconciler/internal/platform/config"
	"github.com/SscSPs/transfer_reconciler/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// @title Transfer Reconciler API
// @version 1.0
// @description Detects internal transfers between household transactions and decides which transactions count toward totals.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	repos, closeStore, err := app.OpenRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open transaction store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New()
	serviceContainer := services.NewServiceContainer(cfg, repos, m)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), middleware.MetricsMiddleware(m), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, m); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
		slog.Int("transfer_window_days", cfg.TransferWindowDays))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
