package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinic-booking-platform/internal/api/router"
	"github.com/wolfman30/clinic-booking-platform/internal/app/bootstrap"
	"github.com/wolfman30/clinic-booking-platform/internal/authz"
	"github.com/wolfman30/clinic-booking-platform/internal/bookings"
	"github.com/wolfman30/clinic-booking-platform/internal/catalog"
	appconfig "github.com/wolfman30/clinic-booking-platform/internal/config"
	httpmiddleware "github.com/wolfman30/clinic-booking-platform/internal/http/middleware"
	"github.com/wolfman30/clinic-booking-platform/internal/identity"
	"github.com/wolfman30/clinic-booking-platform/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := bootstrap.BuildPgxPool(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Repositories and services.
	bookingRepo := bookings.NewRepository(pool)
	bookingService := bookings.NewService(bookingRepo, logger, bookingMetrics)
	userRepo := identity.NewUserRepository(pool)
	profileRepo := identity.NewProfileRepository(pool)
	identityService := identity.NewService(userRepo, profileRepo, logger)

	// The role cache is optional: without Redis the guard only sees the
	// live session role.
	var roleCache httpmiddleware.RoleCache
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		roleCache = authz.NewCachedRoleStore(redisClient, cfg.CachedRoleTTL)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		BookingsHandler:    bookings.NewHandler(bookingService, logger),
		CatalogHandler:     catalog.NewHandler(logger),
		IdentityHandler:    identity.NewHandler(identityService, logger),
		Guard:              authz.NewGuard(cfg.LoginPath, cfg.GuardFallbackPath, logger),
		RoleCache:          roleCache,
		SessionSecret:      cfg.JWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Background sweep for bookings stranded in pending.
	reconcilerCtx, stopReconciler := context.WithCancel(ctx)
	defer stopReconciler()
	if cfg.ReconcilerEnabled {
		reconciler := bookings.NewReconciler(bookingRepo,
			cfg.PendingStaleAfter, cfg.ReconcilerMaxAttempts, logger, bookingMetrics)
		go reconciler.Run(reconcilerCtx, cfg.ReconcilerInterval)
		logger.Info("booking reconciler started",
			"interval", cfg.ReconcilerInterval, "stale_after", cfg.PendingStaleAfter)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopReconciler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
