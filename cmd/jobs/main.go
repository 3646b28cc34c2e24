// cmd/jobs/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockalert/internal/cache"
	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/forecast"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/notify"
	"github.com/andresuchdata/stockalert/internal/scheduler"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/andresuchdata/stockalert/internal/storage"
	"github.com/andresuchdata/stockalert/pkg/logger"
	"github.com/gorilla/mux"
)

// The jobs binary runs the schedulers and exposes a small admin surface
// for health checks and manual triggers. It shares no state with the
// API server.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without snapshot cache")
		snapshotCache = cache.NewNoopSnapshotCache()
	}

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

	archive, err := storage.NewReportArchive(cfg.Archive)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report archive unavailable, summaries will not be archived")
	}

	sched := scheduler.New(
		monitorSvc,
		register,
		provider,
		sms,
		slack,
		archive,
		cfg.Monitoring.CheckIntervalMinutes,
		cfg.Monitoring.LocationIDs,
		cfg.Monitoring.MaxConcurrentPasses,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.HandleFunc("/trigger/check", func(w http.ResponseWriter, req *http.Request) {
		sched.RunCheck(req.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "check completed"})
	}).Methods("POST")

	r.HandleFunc("/trigger/summary", func(w http.ResponseWriter, req *http.Request) {
		sched.RunDailySummary(req.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "summary sent"})
	}).Methods("POST")

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Jobs admin server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start admin server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down jobs...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Admin server forced to shutdown")
	}

	logger.Log.Info().Msg("Jobs exiting")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
