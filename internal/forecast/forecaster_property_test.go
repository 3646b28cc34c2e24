package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any velocity and stock pair, the suggested reorder
// quantity never pushes the product past max stock, is never negative,
// and a positive suggestion lands on the friction-reducing multiples.
func TestProperty_ReorderQuantityNeverExceedsMaxStock(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	f := NewForecaster(7, 7)

	properties.Property("currentStock + suggestion <= maxStock", prop.ForAll(
		func(velocity float64, currentStock, maxStock int) bool {
			qty := f.ReorderQuantity(velocity, currentStock, maxStock)

			if qty < 0 {
				return false
			}
			if qty > 0 && currentStock+qty > maxStock {
				return false
			}
			if qty > 0 && qty <= 20 && qty%5 != 0 && currentStock+qty != maxStock {
				return false
			}

			return true
		},
		gen.Float64Range(0, 50),
		gen.IntRange(0, 500),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

// Property: a non-positive velocity always yields no suggestion and no
// stockout projection.
func TestProperty_NonPositiveVelocityYieldsNothing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	f := NewForecaster(7, 7)

	properties.Property("no projection or reorder without velocity", prop.ForAll(
		func(velocity float64, currentStock, maxStock int) bool {
			return f.ReorderQuantity(velocity, currentStock, maxStock) == 0 &&
				f.DaysUntilStockout(currentStock, velocity) == nil
		},
		gen.Float64Range(-50, 0),
		gen.IntRange(0, 500),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

// Property: both anomaly velocities come from the same history slice
// with fixed 7 and 30 day divisors, so for any single-order history the
// recent/baseline ratio is the constant 30/7. A nil result can only
// mean an empty baseline.
func TestProperty_AnomalyUsesSameHistoryForBothWindows(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	f := NewForecaster(7, 7)

	properties.Property("single-order history always flags an increase", prop.ForAll(
		func(quantity int) bool {
			history := []domain.SalesRecord{{
				ID:        "order_prop",
				CreatedAt: time.Now(),
				LineItems: []domain.LineItem{{ProductID: "item_prop", Quantity: quantity}},
			}}

			anomaly := f.DetectAnomaly("item_prop", history)

			baseline := f.CalculateVelocity("item_prop", history, 30)
			if baseline == 0 {
				return anomaly == nil
			}

			// 30/7 is a ~329% increase, always past the 50% threshold.
			return anomaly != nil &&
				anomaly.Direction == "increase" &&
				anomaly.RecentVelocity > anomaly.BaselineVelocity
		},
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t)
}
