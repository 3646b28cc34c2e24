// internal/square/demo.go
package square

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/rs/zerolog/log"
)

// DemoProvider serves deterministic fixture data so the whole system can
// run without Square credentials. Quantities are chosen to exercise
// every status tier: one healthy item, one overstocked, one low, one
// critical and one out of stock.
type DemoProvider struct{}

func NewDemoProvider() *DemoProvider {
	log.Info().Msg("square: running in demo mode, serving fixture data")
	return &DemoProvider{}
}

var demoInventory = []struct {
	productID string
	quantity  int
}{
	{"item_001", 45},
	{"item_002", 8},
	{"item_003", 120},
	{"item_004", 2},
	{"item_005", 0},
}

var demoCatalog = []domain.CatalogItem{
	{ID: "item_001", Name: "Premium Coffee Beans", Description: "Organic whole bean coffee", CategoryID: "cat_beverages"},
	{ID: "item_002", Name: "Espresso Machine Filters", Description: "Replacement filters for espresso machine", CategoryID: "cat_supplies"},
	{ID: "item_003", Name: "Paper Cups (16oz)", Description: "Disposable paper cups", CategoryID: "cat_supplies"},
	{ID: "item_004", Name: "Vanilla Syrup", Description: "Flavoring syrup for beverages", CategoryID: "cat_ingredients"},
	{ID: "item_005", Name: "Oat Milk", Description: "Dairy-free milk alternative", CategoryID: "cat_ingredients"},
}

func (p *DemoProvider) GetInventoryCounts(ctx context.Context, locationID string) ([]domain.InventoryCount, error) {
	now := time.Now()

	counts := make([]domain.InventoryCount, 0, len(demoInventory))
	for _, item := range demoInventory {
		counts = append(counts, domain.InventoryCount{
			ProductID:    item.productID,
			LocationID:   locationID,
			Quantity:     item.quantity,
			CalculatedAt: now,
		})
	}

	return counts, nil
}

func (p *DemoProvider) GetCatalogItems(ctx context.Context, locationID string) ([]domain.CatalogItem, error) {
	items := make([]domain.CatalogItem, len(demoCatalog))
	copy(items, demoCatalog)

	return items, nil
}

// GetSalesHistory simulates steady daily demand: 3/day for item_001,
// one item_002 every third day, 6/day for item_003, 2/day for item_004
// and 3/day for item_005.
func (p *DemoProvider) GetSalesHistory(ctx context.Context, locationID string, days int) ([]domain.SalesRecord, error) {
	records := make([]domain.SalesRecord, 0, days*5)
	baseDate := time.Now().AddDate(0, 0, -days)

	for day := 0; day < days; day++ {
		saleDate := baseDate.AddDate(0, 0, day)

		records = append(records, demoOrder(day, 1, saleDate, "item_001", 3))
		if day%3 == 0 {
			records = append(records, demoOrder(day, 2, saleDate, "item_002", 1))
		}
		records = append(records, demoOrder(day, 3, saleDate, "item_003", 6))
		records = append(records, demoOrder(day, 4, saleDate, "item_004", 2))
		records = append(records, demoOrder(day, 5, saleDate, "item_005", 3))
	}

	return records, nil
}

func demoOrder(day, seq int, createdAt time.Time, productID string, quantity int) domain.SalesRecord {
	return domain.SalesRecord{
		ID:        fmt.Sprintf("order_%d_%d", day, seq),
		CreatedAt: createdAt,
		LineItems: []domain.LineItem{{ProductID: productID, Quantity: quantity}},
	}
}

func (p *DemoProvider) ListLocations(ctx context.Context) ([]domain.Location, error) {
	now := time.Now()

	return []domain.Location{
		{
			ID:               "loc_001",
			Name:             "Downtown Store",
			Address:          "123 Main St",
			City:             "Seattle",
			State:            "WA",
			ZipCode:          "98101",
			ManagerName:      "Sarah Johnson",
			ManagerPhone:     "+1-206-555-0101",
			SquareLocationID: "sq_loc_001",
			Active:           true,
			CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastSync:         &now,
		},
		{
			ID:               "loc_002",
			Name:             "Capitol Hill Store",
			Address:          "456 Broadway Ave",
			City:             "Seattle",
			State:            "WA",
			ZipCode:          "98102",
			ManagerName:      "Mike Chen",
			ManagerPhone:     "+1-206-555-0102",
			SquareLocationID: "sq_loc_002",
			Active:           true,
			CreatedAt:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			LastSync:         &now,
		},
		{
			ID:               "loc_003",
			Name:             "Bellevue Store",
			Address:          "789 NE 8th St",
			City:             "Bellevue",
			State:            "WA",
			ZipCode:          "98004",
			ManagerName:      "Emily Rodriguez",
			ManagerPhone:     "+1-425-555-0103",
			SquareLocationID: "sq_loc_003",
			Active:           true,
			CreatedAt:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			LastSync:         &now,
		},
	}, nil
}
