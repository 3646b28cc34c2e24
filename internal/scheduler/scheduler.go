// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/notify"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/andresuchdata/stockalert/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Daily summary fires at 08:00 local time
const dailySummaryHour = 8

// Scheduler drives the periodic monitoring jobs: the interval
// check-and-alert pass over every location and the daily aggregate
// summary. Locations are processed in parallel with bounded
// concurrency; a failure in one location is logged and never aborts
// the others.
type Scheduler struct {
	monitor  *monitor.Service
	register *monitor.AlertRegister
	provider square.Provider
	sms      notify.Notifier
	slack    *notify.SlackNotifier
	archive  storage.ReportArchive

	interval    time.Duration
	locationIDs []string
	sem         *semaphore.Weighted
}

func New(
	monitorSvc *monitor.Service,
	register *monitor.AlertRegister,
	provider square.Provider,
	sms notify.Notifier,
	slack *notify.SlackNotifier,
	archive storage.ReportArchive,
	intervalMinutes int,
	locationIDs []string,
	maxConcurrent int,
) *Scheduler {
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Scheduler{
		monitor:     monitorSvc,
		register:    register,
		provider:    provider,
		sms:         sms,
		slack:       slack,
		archive:     archive,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		locationIDs: locationIDs,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Run blocks, firing the interval check and the daily summary until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("scheduler: started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	summaryTimer := time.NewTimer(untilNextSummary(time.Now()))
	defer summaryTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler: stopped")
			return
		case <-ticker.C:
			s.RunCheck(ctx)
		case <-summaryTimer.C:
			s.RunDailySummary(ctx)
			summaryTimer.Reset(untilNextSummary(time.Now()))
		}
	}
}

func untilNextSummary(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), dailySummaryHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}

// RunCheck runs one monitoring pass over every location and delivers the
// generated alerts: SMS for critical alerts only, Slack for all.
func (s *Scheduler) RunCheck(ctx context.Context) {
	log.Info().Msg("scheduler: running scheduled inventory check")

	var (
		mu        sync.Mutex
		allAlerts []domain.Alert
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, locationID := range s.locations(ctx) {
		group.Go(func() error {
			if err := s.sem.Acquire(groupCtx, 1); err != nil {
				return nil
			}
			defer s.sem.Release(1)

			snapshots := s.monitor.CheckStockLevels(groupCtx, locationID)
			drafts := monitor.GenerateAlerts(snapshots, s.monitor.Thresholds())
			if len(drafts) == 0 {
				return nil
			}

			alerts := monitor.StampAlerts(drafts)
			s.register.Record(alerts)

			mu.Lock()
			allAlerts = append(allAlerts, alerts...)
			mu.Unlock()

			return nil
		})
	}
	// Workers never return errors; per-location failures already degrade
	// to empty snapshot sets inside the monitor.
	_ = group.Wait()

	if len(allAlerts) == 0 {
		log.Info().Msg("scheduler: no alerts generated, all stock levels healthy")
		return
	}

	log.Info().Int("count", len(allAlerts)).Msg("scheduler: alerts generated")

	critical, _ := notify.Partition(allAlerts)
	if len(critical) > 0 {
		result := s.sms.SendBatch(ctx, critical)
		log.Info().Int("success", result.Success).Int("failed", result.Failed).
			Msg("scheduler: SMS alerts dispatched")
	}

	result := s.slack.SendBatch(ctx, allAlerts)
	log.Info().Int("success", result.Success).Int("failed", result.Failed).
		Msg("scheduler: Slack alerts dispatched")
}

// RunDailySummary aggregates every location into one report, sends it to
// Slack and archives it when an archive is configured.
func (s *Scheduler) RunDailySummary(ctx context.Context) {
	log.Info().Msg("scheduler: generating daily summary")

	summary := domain.DailySummary{Date: time.Now().Format("2006-01-02")}

	for _, locationID := range s.locations(ctx) {
		snapshots := s.monitor.CheckStockLevels(ctx, locationID)
		drafts := monitor.GenerateAlerts(snapshots, s.monitor.Thresholds())

		locSummary := monitor.Summarize(locationID, snapshots)
		summary.TotalProducts += locSummary.TotalProducts
		summary.Healthy += locSummary.Healthy
		summary.LowStock += locSummary.LowStock
		summary.Critical += locSummary.Critical + locSummary.OutOfStock
		summary.AlertsGenerated += len(drafts)

		for _, snap := range snapshots {
			if snap.SuggestedReorderQty > 0 {
				summary.ReordersSuggested++
			}
		}
	}

	if err := s.slack.SendDailySummary(ctx, summary); err != nil {
		log.Error().Err(err).Msg("scheduler: daily summary send failed")
	}

	if s.archive != nil {
		if err := s.archive.StoreDailySummary(ctx, summary); err != nil {
			log.Error().Err(err).Msg("scheduler: daily summary archive failed")
		}
	}
}

// locations resolves the set of locations to monitor, preferring the
// provider's directory and falling back to the configured IDs.
func (s *Scheduler) locations(ctx context.Context) []string {
	locations, err := s.provider.ListLocations(ctx)
	if err != nil || len(locations) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("scheduler: location listing failed, using configured IDs")
		}
		return s.locationIDs
	}

	ids := make([]string, 0, len(locations))
	for _, location := range locations {
		if location.Active {
			ids = append(ids, location.ID)
		}
	}

	return ids
}
