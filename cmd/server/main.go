// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockalert/internal/api"
	"github.com/andresuchdata/stockalert/internal/api/handlers"
	"github.com/andresuchdata/stockalert/internal/cache"
	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/forecast"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/notify"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/andresuchdata/stockalert/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize snapshot cache
	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without snapshot cache")
		snapshotCache = cache.NewNoopSnapshotCache()
	}

	// Initialize services
	provider := square.NewProvider(cfg.Square, cfg.App.DemoMode)
	forecaster := forecast.NewForecaster(cfg.Monitoring.LeadTimeDays, cfg.Monitoring.SafetyStockDays)
	thresholds := domain.Thresholds{
		LowPct:      cfg.Monitoring.LowThresholdPct,
		CriticalPct: cfg.Monitoring.CriticalThresholdPct,
	}
	monitorSvc := monitor.NewService(provider, forecaster, snapshotCache, thresholds, cfg.Monitoring.DefaultMaxStock)
	register := monitor.NewAlertRegister(0)
	sms := notify.NewTwilioNotifier(cfg.Twilio, cfg.App.DemoMode)
	slack := notify.NewSlackNotifier(cfg.Slack, cfg.App.DemoMode)

	router := api.NewRouter(&api.Services{
		Inventory: handlers.NewInventoryHandler(monitorSvc),
		Alerts:    handlers.NewAlertHandler(monitorSvc, register, sms, slack),
		Locations: handlers.NewLocationHandler(provider),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Bool("demo_mode", cfg.App.DemoMode).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
