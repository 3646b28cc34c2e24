// internal/domain/models.go
package domain

import "time"

// Location represents a retail location registered in the system
type Location struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	ZipCode          string     `json:"zip_code,omitempty"`
	ManagerName      string     `json:"manager_name,omitempty"`
	ManagerPhone     string     `json:"manager_phone,omitempty"`
	SquareLocationID string     `json:"square_location_id,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSync         *time.Time `json:"last_sync,omitempty"`
}

// InventoryCount is a point-in-time stock count for one product at a location
type InventoryCount struct {
	ProductID    string    `json:"product_id"`
	LocationID   string    `json:"location_id"`
	Quantity     int       `json:"quantity"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// CatalogItem is the catalog metadata for a product
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
}

// LineItem is a single product line on a sales order
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SalesRecord is one historical sales order. Records are immutable and
// sourced from the point-of-sale provider.
type SalesRecord struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	LineItems []LineItem `json:"line_items"`
}

// StockSnapshot is the per-product result of a monitoring pass. It is
// created fresh on every pass and never mutated afterwards.
type StockSnapshot struct {
	ProductID           string      `json:"product_id"`
	ProductName         string      `json:"product_name"`
	LocationID          string      `json:"location_id"`
	CurrentStock        int         `json:"current_stock"`
	MaxStock            int         `json:"max_stock"`
	StockPercentage     float64     `json:"stock_percentage"`
	Status              StockStatus `json:"status"`
	Velocity            float64     `json:"velocity"`
	DaysUntilStockout   *int        `json:"days_until_stockout,omitempty"`
	SuggestedReorderQty int         `json:"suggested_reorder_quantity"`
}

// VelocityAnomaly flags a sudden shift in demand for one product
type VelocityAnomaly struct {
	ProductID        string  `json:"product_id"`
	RecentVelocity   float64 `json:"recent_velocity"`
	BaselineVelocity float64 `json:"baseline_velocity"`
	ChangePercentage float64 `json:"change_percentage"`
	Direction        string  `json:"direction"` // "increase" or "decrease"
}

// OptimalStockLevels holds derived min/max stock and the reorder point
type OptimalStockLevels struct {
	MinStock     int `json:"min_stock"`
	MaxStock     int `json:"max_stock"`
	ReorderPoint int `json:"reorder_point"`
}

// InventorySummary aggregates stock conditions for one location
type InventorySummary struct {
	LocationID     string `json:"location_id,omitempty"`
	TotalProducts  int    `json:"total_products"`
	Healthy        int    `json:"healthy"`
	LowStock       int    `json:"low_stock"`
	Critical       int    `json:"critical"`
	OutOfStock     int    `json:"out_of_stock"`
	NeedsAttention int    `json:"needs_attention"`
}

// DailySummary is the aggregate report sent by the daily summary job
type DailySummary struct {
	Date              string `json:"date"`
	TotalProducts     int    `json:"total_products"`
	Healthy           int    `json:"healthy"`
	LowStock          int    `json:"low_stock"`
	Critical          int    `json:"critical"`
	AlertsGenerated   int    `json:"alerts_generated"`
	ReordersSuggested int    `json:"reorders_suggested"`
}

// Thresholds are the configured stock-percentage cutoffs for a monitoring
// pass. CriticalPct < LowPct must hold; both are in (0, 100).
type Thresholds struct {
	LowPct      float64
	CriticalPct float64
}
