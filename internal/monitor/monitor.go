// internal/monitor/monitor.go
package monitor

import (
	"context"

	"github.com/andresuchdata/stockalert/internal/cache"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/forecast"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/rs/zerolog/log"
)

// Sales window used for baseline velocity, in days
const salesHistoryDays = 30

// Service runs monitoring passes: it fetches inventory, catalog and
// sales data for a location and turns them into classified stock
// snapshots. A pass is a synchronous pipeline with no shared mutable
// state, so passes for different locations can run concurrently.
type Service struct {
	provider        square.Provider
	forecaster      *forecast.Forecaster
	cache           cache.SnapshotCache
	thresholds      domain.Thresholds
	defaultMaxStock int
}

func NewService(provider square.Provider, forecaster *forecast.Forecaster, snapshotCache cache.SnapshotCache, thresholds domain.Thresholds, defaultMaxStock int) *Service {
	if snapshotCache == nil {
		snapshotCache = cache.NewNoopSnapshotCache()
	}
	if defaultMaxStock <= 0 {
		defaultMaxStock = 100
	}

	return &Service{
		provider:        provider,
		forecaster:      forecaster,
		cache:           snapshotCache,
		thresholds:      thresholds,
		defaultMaxStock: defaultMaxStock,
	}
}

// Thresholds returns the configured stock thresholds for this service.
func (s *Service) Thresholds() domain.Thresholds {
	return s.thresholds
}

// CheckStockLevels computes fresh stock snapshots for every product at a
// location. A provider failure degrades to an empty result set: the
// failure is logged, never propagated, so one broken location cannot
// abort a multi-location run.
func (s *Service) CheckStockLevels(ctx context.Context, locationID string) []domain.StockSnapshot {
	if snapshots, ok, err := s.cache.Get(ctx, locationID); err == nil && ok {
		return snapshots
	} else if err != nil {
		log.Warn().Err(err).Str("location_id", locationID).Msg("monitor: snapshot cache get failed")
	}

	log.Info().Str("location_id", locationID).Msg("monitor: checking stock levels")

	inventory, err := s.provider.GetInventoryCounts(ctx, locationID)
	if err != nil {
		log.Error().Err(err).Str("location_id", locationID).Msg("monitor: inventory fetch failed")
		return []domain.StockSnapshot{}
	}

	catalog, err := s.provider.GetCatalogItems(ctx, locationID)
	if err != nil {
		log.Error().Err(err).Str("location_id", locationID).Msg("monitor: catalog fetch failed")
		return []domain.StockSnapshot{}
	}
	catalogByID := make(map[string]domain.CatalogItem, len(catalog))
	for _, item := range catalog {
		catalogByID[item.ID] = item
	}

	sales, err := s.provider.GetSalesHistory(ctx, locationID, salesHistoryDays)
	if err != nil {
		log.Warn().Err(err).Str("location_id", locationID).Msg("monitor: sales history fetch failed, velocity will be 0")
		sales = nil
	}

	snapshots := make([]domain.StockSnapshot, 0, len(inventory))
	for _, count := range inventory {
		item, ok := catalogByID[count.ProductID]
		if !ok {
			log.Debug().Str("product_id", count.ProductID).Msg("monitor: no catalog entry, skipping")
			continue
		}

		velocity := s.forecaster.CalculateVelocity(count.ProductID, sales, salesHistoryDays)

		// Max stock is a per-deployment default until the catalog carries
		// per-product capacities.
		maxStock := s.defaultMaxStock

		percentage, status, err := Classify(count.Quantity, maxStock, s.thresholds)
		if err != nil {
			log.Error().Err(err).Str("product_id", count.ProductID).Msg("monitor: classification failed")
			continue
		}

		snapshots = append(snapshots, domain.StockSnapshot{
			ProductID:           count.ProductID,
			ProductName:         item.Name,
			LocationID:          locationID,
			CurrentStock:        count.Quantity,
			MaxStock:            maxStock,
			StockPercentage:     percentage,
			Status:              status,
			Velocity:            velocity,
			DaysUntilStockout:   s.forecaster.DaysUntilStockout(count.Quantity, velocity),
			SuggestedReorderQty: s.forecaster.ReorderQuantity(velocity, count.Quantity, maxStock),
		})
	}

	if err := s.cache.Set(ctx, locationID, snapshots); err != nil {
		log.Warn().Err(err).Str("location_id", locationID).Msg("monitor: snapshot cache set failed")
	}

	return snapshots
}

// Refresh drops any cached snapshots for the location and runs a fresh
// pass.
func (s *Service) Refresh(ctx context.Context, locationID string) []domain.StockSnapshot {
	if err := s.cache.Invalidate(ctx, locationID); err != nil {
		log.Warn().Err(err).Str("location_id", locationID).Msg("monitor: snapshot cache invalidate failed")
	}

	return s.CheckStockLevels(ctx, locationID)
}

// LowStock filters a pass down to the items that need attention.
func (s *Service) LowStock(ctx context.Context, locationID string) []domain.StockSnapshot {
	snapshots := s.CheckStockLevels(ctx, locationID)

	low := make([]domain.StockSnapshot, 0)
	for _, snap := range snapshots {
		if snap.Status.NeedsAttention() {
			low = append(low, snap)
		}
	}

	return low
}

// Summarize aggregates snapshot statuses for one location.
func Summarize(locationID string, snapshots []domain.StockSnapshot) domain.InventorySummary {
	summary := domain.InventorySummary{
		LocationID:    locationID,
		TotalProducts: len(snapshots),
	}

	for _, snap := range snapshots {
		switch snap.Status {
		case domain.StatusHealthy:
			summary.Healthy++
		case domain.StatusLow:
			summary.LowStock++
		case domain.StatusCritical:
			summary.Critical++
		case domain.StatusOutOfStock:
			summary.OutOfStock++
		}
	}
	summary.NeedsAttention = summary.LowStock + summary.Critical + summary.OutOfStock

	return summary
}

// DetectAnomalies runs the velocity anomaly detector over every product
// sold at the location within the baseline window.
func (s *Service) DetectAnomalies(ctx context.Context, locationID string) []domain.VelocityAnomaly {
	sales, err := s.provider.GetSalesHistory(ctx, locationID, salesHistoryDays)
	if err != nil {
		log.Error().Err(err).Str("location_id", locationID).Msg("monitor: sales history fetch failed")
		return []domain.VelocityAnomaly{}
	}

	seen := make(map[string]struct{})
	anomalies := make([]domain.VelocityAnomaly, 0)
	for _, record := range sales {
		for _, item := range record.LineItems {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}

			if anomaly := s.forecaster.DetectAnomaly(item.ProductID, sales); anomaly != nil {
				anomalies = append(anomalies, *anomaly)
			}
		}
	}

	return anomalies
}

// OptimalLevels exposes the forecaster's derived stock levels for a
// product at a location.
func (s *Service) OptimalLevels(ctx context.Context, locationID, productID string, serviceLevel float64) domain.OptimalStockLevels {
	sales, err := s.provider.GetSalesHistory(ctx, locationID, salesHistoryDays)
	if err != nil {
		log.Error().Err(err).Str("location_id", locationID).Msg("monitor: sales history fetch failed")
		return domain.OptimalStockLevels{}
	}

	velocity := s.forecaster.CalculateVelocity(productID, sales, salesHistoryDays)

	return s.forecaster.OptimalStockLevels(velocity, serviceLevel)
}
