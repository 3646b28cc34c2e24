// internal/cache/snapshot_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "stockalert:snapshots"

// SnapshotCache keeps recent monitoring-pass results so closely spaced
// API calls and scheduled checks do not hammer the POS provider. Stale
// entries simply expire; snapshots are always recomputable.
type SnapshotCache interface {
	Get(ctx context.Context, locationID string) ([]domain.StockSnapshot, bool, error)
	Set(ctx context.Context, locationID string, snapshots []domain.StockSnapshot) error
	Invalidate(ctx context.Context, locationID string) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func snapshotKey(locationID string) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, locationID)
}

func (c *redisSnapshotCache) Get(ctx context.Context, locationID string) ([]domain.StockSnapshot, bool, error) {
	payload, err := c.client.Get(ctx, snapshotKey(locationID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshots []domain.StockSnapshot
	if err := json.Unmarshal(payload, &snapshots); err != nil {
		return nil, false, fmt.Errorf("decode snapshot cache: %w", err)
	}

	return snapshots, true, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, locationID string, snapshots []domain.StockSnapshot) error {
	payload, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("encode snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey(locationID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context, locationID string) error {
	if err := c.client.Del(ctx, snapshotKey(locationID)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}

	return nil
}

func (c *noopSnapshotCache) Get(ctx context.Context, locationID string) ([]domain.StockSnapshot, bool, error) {
	return nil, false, nil
}

func (c *noopSnapshotCache) Set(ctx context.Context, locationID string, snapshots []domain.StockSnapshot) error {
	return nil
}

func (c *noopSnapshotCache) Invalidate(ctx context.Context, locationID string) error {
	return nil
}
