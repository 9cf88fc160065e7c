package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/handlers"
	"github.com/SscSPs/remittance_ledger/internal/middleware"
	"github.com/SscSPs/remittance_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/remittance_ledger/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Remittance Ledger API
// @version 1.0
// @description Double-entry posting engine for cash and USDT remittance records.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	options, closeInfra, err := bootstrap.ServiceOptions(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect optional infrastructure", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeInfra()

	serviceContainer := services.NewServiceContainer(store, options...)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if corsMiddleware, ok := newCORS(cfg); ok {
		r.Use(corsMiddleware)
	} else {
		logger.Warn("CORS disabled: no CORS_ALLOWED_ORIGINS configured in production")
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiting", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newCORS allows every origin outside production. In production only the
// configured origins are allowed, and none configured means no CORS at all.
func newCORS(cfg *config.Config) (gin.HandlerFunc, bool) {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(cfg.AllowedOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	case cfg.IsProduction:
		return nil, false
	default:
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "X-Request-ID",
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset")
	return cors.New(corsConfig), true
}
