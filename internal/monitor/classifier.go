// internal/monitor/classifier.go
package monitor

import (
	"errors"
	"fmt"

	"github.com/andresuchdata/stockalert/internal/domain"
)

// ErrInvalidConfiguration is returned when a caller violates a
// computation precondition, e.g. a non-positive max stock.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Classify maps a stock level to its percentage of capacity and status
// tier. It is a pure function: out_of_stock iff currentStock is 0, else
// critical/low by the configured thresholds, else healthy.
//
// maxStock must be positive; anything else is a caller contract
// violation and fails with ErrInvalidConfiguration.
func Classify(currentStock, maxStock int, thresholds domain.Thresholds) (float64, domain.StockStatus, error) {
	if maxStock <= 0 {
		return 0, "", fmt.Errorf("%w: max stock must be positive, got %d", ErrInvalidConfiguration, maxStock)
	}

	percentage := float64(currentStock) / float64(maxStock) * 100

	switch {
	case currentStock == 0:
		return percentage, domain.StatusOutOfStock, nil
	case percentage <= thresholds.CriticalPct:
		return percentage, domain.StatusCritical, nil
	case percentage <= thresholds.LowPct:
		return percentage, domain.StatusLow, nil
	default:
		return percentage, domain.StatusHealthy, nil
	}
}
