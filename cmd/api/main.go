package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careops/hospital-console/internal/api/router"
	"github.com/careops/hospital-console/internal/app/bootstrap"
	"github.com/careops/hospital-console/internal/appointments"
	"github.com/careops/hospital-console/internal/audit"
	"github.com/careops/hospital-console/internal/availability"
	appconfig "github.com/careops/hospital-console/internal/config"
	"github.com/careops/hospital-console/internal/http/handlers"
	"github.com/careops/hospital-console/internal/observability/metrics"
	"github.com/careops/hospital-console/internal/scheduling"
	"github.com/careops/hospital-console/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting hospital-console API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Backend of record
	hisClient, err := bootstrap.BuildHISClient(cfg, logger)
	if err != nil {
		logger.Error("failed to build HIS client", "error", err)
		os.Exit(1)
	}

	// Draft store (required)
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required for the draft store")
		os.Exit(1)
	}
	draftStore := scheduling.NewDraftStore(redisClient, cfg.DraftTTL)

	// Booking event trail (optional)
	var recorder *audit.Recorder
	if pool := bootstrap.BuildAuditPool(ctx, cfg, logger); pool != nil {
		defer pool.Close()
		recorder = audit.NewRecorder(pool, logger)
		logger.Info("booking event trail enabled")
	} else {
		logger.Warn("booking event trail disabled, no database configured")
	}

	// Domain services
	resolver := availability.NewResolver(hisClient, logger.Named("availability"), bookingMetrics)
	repo := appointments.NewRepository(hisClient, logger.Named("appointments"))
	var sink scheduling.AuditSink
	if recorder != nil {
		sink = recorder
	}
	bookingService := scheduling.NewService(draftStore, resolver, repo, sink, bookingMetrics, logger.Named("scheduling"))

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		Availability:       handlers.NewAvailabilityHandler(resolver, logger),
		Booking:            handlers.NewBookingHandler(bookingService, logger),
		Appointments:       handlers.NewAppointmentsHandler(repo, recorder, logger),
		Catalog:            handlers.NewCatalogHandler(hisClient, logger),
		SessionSecret:      cfg.SessionSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
