package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/invoice-desk/internal/application/service"
	"github.com/sangkips/invoice-desk/internal/config"
	domainRepo "github.com/sangkips/invoice-desk/internal/domain/repository"
	"github.com/sangkips/invoice-desk/internal/infrastructure/database"
	"github.com/sangkips/invoice-desk/internal/infrastructure/repository"
	"github.com/sangkips/invoice-desk/internal/logger"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-desk/internal/presentation/http/handler"
	"github.com/sangkips/invoice-desk/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-desk/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Setup(logger.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	invoiceRepo, err := newInvoiceRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize invoice store")
	}

	// Seed default data
	if cfg.Store.SeedDemo {
		if err := database.SeedDefaultData(ctx, invoiceRepo); err != nil {
			log.Warn().Err(err).Msg("Failed to seed default data")
		}
	}

	// Initialize services
	invoiceService := service.NewInvoiceService(invoiceRepo)

	validator, err := request.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compile request schemas")
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService, validator),
		Health:  handler.NewHealthHandler(cfg.App.Name, invoiceService),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(max(cfg.RateLimit.Duration, 1)),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Close()

	idempotencyRepo := repository.NewIdempotencyRepository()
	go sweepIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	// Setup routes
	router, err := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         middleware.NewMetrics("invoice_desk", invoiceService.CountInvoices),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid route configuration")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("service", cfg.App.Name).
			Str("env", cfg.App.Env).
			Str("addr", srv.Addr).
			Str("prefix", cfg.App.APIPrefix).
			Str("store", cfg.Store.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func newInvoiceRepository(cfg *config.Config) (domainRepo.InvoiceRepository, error) {
	if cfg.Store.Driver != config.StoreDriverSQLite {
		return repository.NewInvoiceRepository(), nil
	}

	db, err := database.NewSQLiteDB(cfg.App.Name)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return repository.NewGormInvoiceRepository(db), nil
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to sweep idempotency keys")
			}
		}
	}
}
