package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rollbook/rollbook-api/internal/domain/model"
)

// RedisSnapshotCache caches user snapshot projections in redis. A cache miss
// is reported as (nil, nil) so callers fall through to postgres.
type RedisSnapshotCache struct {
	Client *redis.Client
}

// NewRedisSnapshotCache creates a snapshot cache on the given client.
func NewRedisSnapshotCache(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{Client: client}
}

func snapshotKey(userID string) string {
	return "snapshot:user:" + userID
}

// Get returns the cached snapshot for userID, or (nil, nil) on a miss.
func (c *RedisSnapshotCache) Get(ctx context.Context, userID string) (*model.UserSummary, error) {
	raw, err := c.Client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}
	var summary model.UserSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, nil
	}
	return &summary, nil
}

// Set stores the snapshot with the given ttl.
func (c *RedisSnapshotCache) Set(ctx context.Context, summary *model.UserSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.Client.Set(ctx, snapshotKey(summary.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}
	return nil
}

// Delete drops the cached snapshot after a profile edit.
func (c *RedisSnapshotCache) Delete(ctx context.Context, userID string) error {
	if err := c.Client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}
	return nil
}
