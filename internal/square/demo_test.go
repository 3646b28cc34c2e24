package square

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoProviderInventoryCoversEveryTier(t *testing.T) {
	p := NewDemoProvider()

	counts, err := p.GetInventoryCounts(context.Background(), "loc_001")

	require.NoError(t, err)
	require.Len(t, counts, 5)

	quantities := make(map[string]int, len(counts))
	for _, count := range counts {
		assert.Equal(t, "loc_001", count.LocationID)
		quantities[count.ProductID] = count.Quantity
	}

	assert.Equal(t, 45, quantities["item_001"])
	assert.Equal(t, 8, quantities["item_002"])
	assert.Equal(t, 120, quantities["item_003"])
	assert.Equal(t, 2, quantities["item_004"])
	assert.Equal(t, 0, quantities["item_005"])
}

func TestDemoProviderCatalogMatchesInventory(t *testing.T) {
	p := NewDemoProvider()

	counts, err := p.GetInventoryCounts(context.Background(), "loc_001")
	require.NoError(t, err)
	items, err := p.GetCatalogItems(context.Background(), "loc_001")
	require.NoError(t, err)

	byID := make(map[string]struct{}, len(items))
	for _, item := range items {
		assert.NotEmpty(t, item.Name)
		byID[item.ID] = struct{}{}
	}

	// Every counted product has catalog metadata, so no snapshot is
	// dropped during a demo monitoring pass.
	for _, count := range counts {
		assert.Contains(t, byID, count.ProductID)
	}
}

func TestDemoProviderSalesHistory(t *testing.T) {
	p := NewDemoProvider()

	records, err := p.GetSalesHistory(context.Background(), "loc_001", 30)

	require.NoError(t, err)

	totals := make(map[string]int)
	for _, record := range records {
		require.Len(t, record.LineItems, 1)
		totals[record.LineItems[0].ProductID] += record.LineItems[0].Quantity
	}

	assert.Equal(t, 90, totals["item_001"])
	assert.Equal(t, 10, totals["item_002"])
	assert.Equal(t, 180, totals["item_003"])
	assert.Equal(t, 60, totals["item_004"])
	assert.Equal(t, 90, totals["item_005"])
}

func TestDemoProviderListLocations(t *testing.T) {
	p := NewDemoProvider()

	locations, err := p.ListLocations(context.Background())

	require.NoError(t, err)
	require.Len(t, locations, 3)
	for _, location := range locations {
		assert.True(t, location.Active)
		assert.NotEmpty(t, location.Name)
		assert.NotEmpty(t, location.ManagerName)
	}
	assert.Equal(t, "loc_001", locations[0].ID)
}
