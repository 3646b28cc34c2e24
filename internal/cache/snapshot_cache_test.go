package cache

import (
	"context"
	"testing"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotCacheDisabled(t *testing.T) {
	cache, err := NewSnapshotCache(config.CacheConfig{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, cache)

	_, ok, err := cache.Get(context.Background(), "loc_001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoopSnapshotCache(t *testing.T) {
	cache := NewNoopSnapshotCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "loc_001", []domain.StockSnapshot{{ProductID: "item_001"}}))

	// A noop cache never reports a hit, even right after a set.
	snapshots, ok, err := cache.Get(ctx, "loc_001")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snapshots)

	assert.NoError(t, cache.Invalidate(ctx, "loc_001"))
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "stockalert:snapshots:loc_001", snapshotKey("loc_001"))
}
