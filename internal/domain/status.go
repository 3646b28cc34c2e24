package domain

import "strings"

// StockStatus is the classification tier for a product's stock level
type StockStatus string

const (
	StatusHealthy    StockStatus = "healthy"
	StatusLow        StockStatus = "low"
	StatusCritical   StockStatus = "critical"
	StatusOutOfStock StockStatus = "out_of_stock"
)

var stockStatusLabels = map[StockStatus]string{
	StatusHealthy:    "Healthy",
	StatusLow:        "Low Stock",
	StatusCritical:   "Critical",
	StatusOutOfStock: "Out of Stock",
}

// StockStatusLabel returns a human-readable label for a stock status.
func StockStatusLabel(status StockStatus) string {
	if label, ok := stockStatusLabels[status]; ok {
		return label
	}

	return "Unknown"
}

// ParseStockStatus returns the status for a given value (case-insensitive).
func ParseStockStatus(value string) (StockStatus, bool) {
	status := StockStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := stockStatusLabels[status]

	return status, ok
}

// NeedsAttention reports whether the status should be surfaced to operators.
func (s StockStatus) NeedsAttention() bool {
	return s == StatusLow || s == StatusCritical || s == StatusOutOfStock
}
