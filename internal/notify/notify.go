// Package notify delivers alert batches to external channels (SMS,
// chat webhooks) and owns the batching policy that decides which alerts
// a channel sees individually versus folded into a summary.
package notify

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockalert/internal/domain"
)

// BatchResult reports delivery counts for one batch.
type BatchResult struct {
	Success int `json:"success_count"`
	Failed  int `json:"failed_count"`
}

// Notifier is a delivery channel for alerts. Sends are best-effort:
// failures are counted, never retried here and never escalated to abort
// a monitoring pass.
type Notifier interface {
	Name() string
	SendAlert(ctx context.Context, alert domain.Alert) error
	SendBatch(ctx context.Context, alerts []domain.Alert) BatchResult
}

// Partition splits alerts for differentiated delivery: critical alerts
// are individually deliverable, everything else is summarizable. Order
// within each group is preserved.
func Partition(alerts []domain.Alert) (critical, summarizable []domain.Alert) {
	for _, alert := range alerts {
		if alert.Severity == domain.SeverityCritical {
			critical = append(critical, alert)
		} else {
			summarizable = append(summarizable, alert)
		}
	}

	return critical, summarizable
}

// BySeverity groups alerts by severity, preserving order within groups.
func BySeverity(alerts []domain.Alert) map[domain.Severity][]domain.Alert {
	groups := make(map[domain.Severity][]domain.Alert)
	for _, alert := range alerts {
		groups[alert.Severity] = append(groups[alert.Severity], alert)
	}

	return groups
}

// Preview caps a group to its first limit messages plus an overflow
// count, for channels with per-message cost or length limits.
func Preview(alerts []domain.Alert, limit int) (messages []string, overflow int) {
	for i, alert := range alerts {
		if i >= limit {
			return messages, len(alerts) - limit
		}
		messages = append(messages, alert.Message)
	}

	return messages, 0
}

func severityEmoji(severity domain.Severity) string {
	switch severity {
	case domain.SeverityCritical:
		return "🔴"
	case domain.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func severityColor(severity domain.Severity) string {
	switch severity {
	case domain.SeverityCritical:
		return "#DC143C"
	case domain.SeverityWarning:
		return "#FFA500"
	case domain.SeverityInfo:
		return "#1E90FF"
	default:
		return "#808080"
	}
}

func formatAlertTitle(alert domain.Alert) string {
	return fmt.Sprintf("StockAlert - %s", string(alert.AlertType))
}
