// cmd/stockalert/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/andresuchdata/stockalert/internal/cache"
	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/forecast"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/andresuchdata/stockalert/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newLocationFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "location",
		Usage:   "Location ID to inspect",
		Value:   "loc_001",
		EnvVars: []string{"STOCKALERT_LOCATION_ID"},
	}
}

// buildMonitor wires the monitoring pipeline for one-shot CLI commands.
// The snapshot cache is skipped: a CLI invocation always wants fresh
// counts.
func buildMonitor(cfg *config.Config) (*monitor.Service, square.Provider) {
	provider := square.NewProvider(cfg.Square, cfg.App.DemoMode)
	forecaster := forecast.NewForecaster(cfg.Monitoring.LeadTimeDays, cfg.Monitoring.SafetyStockDays)
	thresholds := domain.Thresholds{
		LowPct:      cfg.Monitoring.LowThresholdPct,
		CriticalPct: cfg.Monitoring.CriticalThresholdPct,
	}

	return monitor.NewService(provider, forecaster, cache.NewNoopSnapshotCache(), thresholds, cfg.Monitoring.DefaultMaxStock), provider
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "stockalert",
		Usage: "Inspect inventory stock levels, forecasts and alerts from the terminal",
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			logger.SetLevel(cfg.App.LogLevel)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run a monitoring pass and print the stock snapshots",
				Flags: []cli.Flag{
					newLocationFlag(),
					&cli.BoolFlag{
						Name:  "low-only",
						Usage: "Only print items that need attention",
					},
				},
				Action: func(c *cli.Context) error {
					svc, _ := buildMonitor(config.Load())

					var snapshots []domain.StockSnapshot
					if c.Bool("low-only") {
						snapshots = svc.LowStock(c.Context, c.String("location"))
					} else {
						snapshots = svc.CheckStockLevels(c.Context, c.String("location"))
					}

					return printJSON(snapshots)
				},
			},
			{
				Name:  "alerts",
				Usage: "Generate and print alerts for a location without delivering them",
				Flags: []cli.Flag{newLocationFlag()},
				Action: func(c *cli.Context) error {
					svc, _ := buildMonitor(config.Load())

					snapshots := svc.CheckStockLevels(c.Context, c.String("location"))
					drafts := monitor.GenerateAlerts(snapshots, svc.Thresholds())
					if len(drafts) == 0 {
						fmt.Println("No alerts: all stock levels healthy")
						return nil
					}

					return printJSON(monitor.StampAlerts(drafts))
				},
			},
			{
				Name:  "summary",
				Usage: "Print the aggregate stock summary for a location",
				Flags: []cli.Flag{newLocationFlag()},
				Action: func(c *cli.Context) error {
					svc, _ := buildMonitor(config.Load())

					locationID := c.String("location")
					snapshots := svc.CheckStockLevels(c.Context, locationID)

					return printJSON(monitor.Summarize(locationID, snapshots))
				},
			},
			{
				Name:  "anomalies",
				Usage: "Print velocity anomalies detected at a location",
				Flags: []cli.Flag{newLocationFlag()},
				Action: func(c *cli.Context) error {
					svc, _ := buildMonitor(config.Load())

					anomalies := svc.DetectAnomalies(c.Context, c.String("location"))
					if len(anomalies) == 0 {
						fmt.Println("No velocity anomalies detected")
						return nil
					}

					return printJSON(anomalies)
				},
			},
			{
				Name:  "locations",
				Usage: "List locations known to the inventory provider",
				Action: func(c *cli.Context) error {
					_, provider := buildMonitor(config.Load())

					locations, err := provider.ListLocations(c.Context)
					if err != nil {
						return fmt.Errorf("failed to list locations: %w", err)
					}

					return printJSON(locations)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
