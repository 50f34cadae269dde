// Package cache provides Redis-backed read-through caching for hot
// scheduling data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// settingsTTL bounds staleness of cached settings between updates made
// outside this process.
const settingsTTL = 5 * time.Minute

// SettingsCache is a read-through decorator over a SettingsRepository.
// Cache failures degrade to the underlying repository; they never fail
// the caller.
type SettingsCache struct {
	inner  domain.SettingsRepository
	client *redis.Client
	logger *slog.Logger
}

// NewSettingsCache wraps a settings repository with a Redis cache.
func NewSettingsCache(inner domain.SettingsRepository, client *redis.Client, logger *slog.Logger) *SettingsCache {
	return &SettingsCache{inner: inner, client: client, logger: logger}
}

func settingsKey(userID uuid.UUID) string {
	return "cadence:settings:" + userID.String()
}

// GetOrCreate loads settings from the cache, falling back to the wrapped
// repository on miss and populating the cache with the result.
func (c *SettingsCache) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, bool, error) {
	key := settingsKey(userID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var settings domain.AutoScheduleSettings
		if err := json.Unmarshal(payload, &settings); err == nil {
			return &settings, false, nil
		}
		// Unreadable entry, drop it and reload from the source of truth.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("settings cache read failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}

	settings, created, err := c.inner.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	c.store(ctx, key, settings)
	return settings, created, nil
}

// Update writes through to the wrapped repository and refreshes the cache.
func (c *SettingsCache) Update(ctx context.Context, settings *domain.AutoScheduleSettings) error {
	if err := c.inner.Update(ctx, settings); err != nil {
		return err
	}
	c.store(ctx, settingsKey(settings.UserID), settings)
	return nil
}

func (c *SettingsCache) store(ctx context.Context, key string, settings *domain.AutoScheduleSettings) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, settingsTTL).Err(); err != nil {
		c.logger.Warn("settings cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
