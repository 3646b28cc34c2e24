// internal/forecast/forecaster.go
package forecast

import (
	"math"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// Velocity windows for anomaly detection, in days
	recentWindowDays   = 7
	baselineWindowDays = 30

	// Absolute velocity change (percent) that counts as an anomaly
	anomalyThresholdPct = 50.0
)

// Forecaster derives sales velocity, stockout projections and reorder
// quantities from raw sales history
type Forecaster struct {
	leadTimeDays    int
	safetyStockDays int
}

// NewForecaster creates a forecaster with the given reorder horizon.
// Non-positive values fall back to a one-week lead time and a one-week
// safety buffer.
func NewForecaster(leadTimeDays, safetyStockDays int) *Forecaster {
	if leadTimeDays <= 0 {
		leadTimeDays = 7
	}
	if safetyStockDays <= 0 {
		safetyStockDays = 7
	}

	return &Forecaster{
		leadTimeDays:    leadTimeDays,
		safetyStockDays: safetyStockDays,
	}
}

// CalculateVelocity returns average units sold per day for a product over
// the supplied history. The caller is responsible for restricting history
// to the desired window; this function does not filter by record
// timestamp, it only divides the summed quantities by windowDays.
// Velocity is best-effort: a non-positive window yields 0.0 rather than
// an error, and the result is rounded to 2 decimal places.
func (f *Forecaster) CalculateVelocity(productID string, history []domain.SalesRecord, windowDays int) float64 {
	if windowDays <= 0 {
		log.Debug().Str("product_id", productID).Int("window_days", windowDays).
			Msg("forecast: non-positive velocity window, returning 0")
		return 0.0
	}

	totalUnits := 0
	for _, record := range history {
		for _, item := range record.LineItems {
			if item.ProductID != productID {
				continue
			}
			if item.Quantity < 0 {
				log.Warn().Str("product_id", productID).Str("order_id", record.ID).
					Int("quantity", item.Quantity).Msg("forecast: negative line item quantity skipped")
				continue
			}
			totalUnits += item.Quantity
		}
	}

	velocity := float64(totalUnits) / float64(windowDays)

	return math.Round(velocity*100) / 100
}

// DaysUntilStockout projects how many days of stock remain at the current
// velocity. It returns nil when velocity is non-positive (no meaningful
// rate to project from). The projection truncates rather than rounds:
// 4.9 days of stock is reported as 4.
func (f *Forecaster) DaysUntilStockout(currentStock int, velocity float64) *int {
	if velocity <= 0 {
		return nil
	}

	days := int(float64(currentStock) / velocity)

	return &days
}

// ReorderQuantity suggests how many units to order so the product covers
// lead time plus safety buffer, without ever exceeding max stock. A
// positive suggestion is rounded up to a multiple of 5 (quantities up to
// 20) or 10 (larger orders) to reduce ordering friction, then capped
// again so currentStock + result never exceeds maxStock.
func (f *Forecaster) ReorderQuantity(velocity float64, currentStock, maxStock int) int {
	if velocity <= 0 {
		return 0
	}

	totalDays := f.leadTimeDays + f.safetyStockDays
	targetStock := velocity * float64(totalDays)

	raw := targetStock - float64(currentStock)

	cap := maxStock - currentStock
	if cap < 0 {
		cap = 0
	}
	if raw > float64(cap) {
		raw = float64(cap)
	}
	if raw <= 0 {
		return 0
	}

	qty := int(math.Ceil(raw))
	if qty <= 20 {
		qty = ((qty + 4) / 5) * 5
	} else {
		qty = ((qty + 9) / 10) * 10
	}
	if qty > cap {
		qty = cap
	}
	if qty < 0 {
		return 0
	}

	return qty
}

// DetectAnomaly compares recent (7-day) velocity against baseline
// (30-day) velocity and flags shifts larger than 50% in either
// direction.
//
// Both velocities are computed from the SAME history slice with different
// day divisors; the detector does not filter records by date, following
// CalculateVelocity's caller contract. Callers that want window-accurate
// velocities must supply window-matched history.
func (f *Forecaster) DetectAnomaly(productID string, history []domain.SalesRecord) *domain.VelocityAnomaly {
	recent := f.CalculateVelocity(productID, history, recentWindowDays)
	baseline := f.CalculateVelocity(productID, history, baselineWindowDays)

	if baseline == 0 {
		return nil
	}

	changePct := (recent - baseline) / baseline * 100

	if math.Abs(changePct) <= anomalyThresholdPct {
		return nil
	}

	direction := "increase"
	if changePct < 0 {
		direction = "decrease"
	}

	return &domain.VelocityAnomaly{
		ProductID:        productID,
		RecentVelocity:   recent,
		BaselineVelocity: baseline,
		ChangePercentage: math.Round(changePct*10) / 10,
		Direction:        direction,
	}
}

// OptimalStockLevels derives min/max stock and the reorder point from
// velocity and lead time. serviceLevel is a fraction in (0, 1]; values
// outside that range fall back to 0.95.
func (f *Forecaster) OptimalStockLevels(velocity float64, serviceLevel float64) domain.OptimalStockLevels {
	if velocity <= 0 {
		return domain.OptimalStockLevels{}
	}
	if serviceLevel <= 0 || serviceLevel > 1 {
		serviceLevel = 0.95
	}

	lead := float64(f.leadTimeDays)

	// Simplified safety stock; a production model would use the standard
	// deviation of demand.
	safetyStock := velocity * lead * (1 - serviceLevel)
	reorderPoint := velocity*lead + safetyStock

	return domain.OptimalStockLevels{
		MinStock:     int(safetyStock),
		MaxStock:     int(velocity * 30),
		ReorderPoint: int(reorderPoint),
	}
}
