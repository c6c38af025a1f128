package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	settingsKey = "settings:snapshot"
	settingsTTL = 5 * time.Minute
	// loadedField marks a populated snapshot, so an empty settings set is
	// still a cache hit.
	loadedField = "__loaded"
)

// SettingsCache keeps a snapshot of the stored settings in a Redis hash.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a SettingsCache wrapping the given Redis client.
func NewSettingsCache(client *redis.Client) *SettingsCache {
	return &SettingsCache{client: client, ttl: settingsTTL}
}

// Load returns the cached snapshot; ok is false on a miss.
func (c *SettingsCache) Load(ctx context.Context) (map[string]string, bool, error) {
	fields, err := c.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, false, fmt.Errorf("settings cache load: %w", err)
	}
	if _, ok := fields[loadedField]; !ok {
		return nil, false, nil
	}
	delete(fields, loadedField)
	return fields, true, nil
}

// Store replaces the snapshot (expires after settingsTTL).
func (c *SettingsCache) Store(ctx context.Context, values map[string]string) error {
	args := make([]any, 0, 2*len(values)+2)
	args = append(args, loadedField, "1")
	for k, v := range values {
		args = append(args, k, v)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, settingsKey)
		pipe.HSet(ctx, settingsKey, args...)
		pipe.Expire(ctx, settingsKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("settings cache store: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot so the next read goes to the store.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, settingsKey).Err()
}
