// internal/monitor/generator.go
package monitor

import (
	"fmt"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/google/uuid"
)

// Near-term stockout horizon (days) for reorder suggestions
const reorderHorizonDays = 7

// GenerateAlerts maps classified snapshots to alert drafts. Rules are
// evaluated in strict priority order and at most one alert is emitted
// per snapshot:
//
//  1. out of stock (critical)
//  2. at or below the critical threshold (critical)
//  3. at or below the low threshold (warning)
//  4. projected stockout within 7 days with a positive reorder
//     suggestion (info)
//
// The transform is deterministic and side-effect free; drafts carry no
// ID or timestamp until stamped.
func GenerateAlerts(snapshots []domain.StockSnapshot, thresholds domain.Thresholds) []domain.AlertDraft {
	alerts := make([]domain.AlertDraft, 0)

	for _, snap := range snapshots {
		switch {
		case snap.CurrentStock == 0:
			alerts = append(alerts, domain.AlertDraft{
				ProductID:    snap.ProductID,
				LocationID:   snap.LocationID,
				AlertType:    domain.AlertOutOfStock,
				Severity:     domain.SeverityCritical,
				Message:      fmt.Sprintf("%s is OUT OF STOCK", snap.ProductName),
				CurrentStock: snap.CurrentStock,
				SuggestedAction: fmt.Sprintf("URGENT: Reorder %d units immediately",
					snap.SuggestedReorderQty),
			})

		case snap.StockPercentage <= thresholds.CriticalPct:
			alerts = append(alerts, domain.AlertDraft{
				ProductID:  snap.ProductID,
				LocationID: snap.LocationID,
				AlertType:  domain.AlertCriticalStock,
				Severity:   domain.SeverityCritical,
				Message: fmt.Sprintf("%s is at CRITICAL stock level (%d units, %.1f%%)",
					snap.ProductName, snap.CurrentStock, snap.StockPercentage),
				CurrentStock: snap.CurrentStock,
				SuggestedAction: fmt.Sprintf("Reorder %d units immediately",
					snap.SuggestedReorderQty),
			})

		case snap.StockPercentage <= thresholds.LowPct:
			alerts = append(alerts, domain.AlertDraft{
				ProductID:  snap.ProductID,
				LocationID: snap.LocationID,
				AlertType:  domain.AlertLowStock,
				Severity:   domain.SeverityWarning,
				Message: fmt.Sprintf("%s is at LOW stock level (%d units, %.1f%%)",
					snap.ProductName, snap.CurrentStock, snap.StockPercentage),
				CurrentStock: snap.CurrentStock,
				SuggestedAction: fmt.Sprintf("Consider reordering %d units",
					snap.SuggestedReorderQty),
			})

		case snap.DaysUntilStockout != nil &&
			*snap.DaysUntilStockout <= reorderHorizonDays &&
			snap.SuggestedReorderQty > 0:
			alerts = append(alerts, domain.AlertDraft{
				ProductID:  snap.ProductID,
				LocationID: snap.LocationID,
				AlertType:  domain.AlertReorderSuggested,
				Severity:   domain.SeverityInfo,
				Message: fmt.Sprintf("%s will run out in %d days at current velocity",
					snap.ProductName, *snap.DaysUntilStockout),
				CurrentStock: snap.CurrentStock,
				SuggestedAction: fmt.Sprintf("Reorder %d units to maintain optimal stock",
					snap.SuggestedReorderQty),
			})
		}
	}

	return alerts
}

// StampAlerts promotes drafts to deliverable alerts with an ID and
// creation timestamp.
func StampAlerts(drafts []domain.AlertDraft) []domain.Alert {
	now := time.Now()

	alerts := make([]domain.Alert, 0, len(drafts))
	for _, draft := range drafts {
		alerts = append(alerts, domain.Alert{
			ID:              uuid.NewString(),
			ProductID:       draft.ProductID,
			LocationID:      draft.LocationID,
			AlertType:       draft.AlertType,
			Severity:        draft.Severity,
			Message:         draft.Message,
			CurrentStock:    draft.CurrentStock,
			SuggestedAction: draft.SuggestedAction,
			CreatedAt:       now,
		})
	}

	return alerts
}
