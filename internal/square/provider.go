// internal/square/provider.go
package square

import (
	"context"

	"github.com/andresuchdata/stockalert/internal/domain"
)

// Provider is the point-of-sale surface the monitoring core consumes:
// inventory counts, catalog metadata, sales history and the location
// directory. Implementations may fail; callers treat failure as "no
// data" for the affected location.
type Provider interface {
	GetInventoryCounts(ctx context.Context, locationID string) ([]domain.InventoryCount, error)
	GetCatalogItems(ctx context.Context, locationID string) ([]domain.CatalogItem, error)
	GetSalesHistory(ctx context.Context, locationID string, days int) ([]domain.SalesRecord, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
}
