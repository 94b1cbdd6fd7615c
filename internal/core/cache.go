package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The core defines the port; the data layer provides the Redis implementation.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// SetTTL updates the TTL for an existing key.
	// Returns true if the key exists and TTL was updated.
	SetTTL(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// SetIfNotExists atomically sets a key only if it doesn't already exist.
	// Returns true if the key was set, false if it already existed.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// RunMetricsCache caches the derived metrics of terminal runs. A terminal
// run's solution rows never change, so its metrics are safe to serve from
// cache until the TTL expires.
type RunMetricsCache struct {
	cache CacheRepository
	ttl   time.Duration
}

// RunMetricsCacheConfig holds configuration for run metrics caching.
type RunMetricsCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// DefaultRunMetricsCacheConfig returns a RunMetricsCacheConfig with sensible defaults.
func DefaultRunMetricsCacheConfig() RunMetricsCacheConfig {
	return RunMetricsCacheConfig{TTL: 5 * time.Minute}
}

// NewRunMetricsCache creates a new RunMetricsCache. A nil cache yields a
// no-op instance so callers need not branch.
func NewRunMetricsCache(cache CacheRepository, cfg RunMetricsCacheConfig) *RunMetricsCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRunMetricsCacheConfig().TTL
	}
	return &RunMetricsCache{cache: cache, ttl: ttl}
}

// Get retrieves cached metrics for a run. The second return reports a hit.
func (c *RunMetricsCache) Get(ctx context.Context, runID string) (*model.RunMetrics, bool, error) {
	if c == nil || c.cache == nil || runID == "" {
		return nil, false, nil
	}
	raw, err := c.cache.Get(ctx, runMetricsKey(runID))
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	var metrics model.RunMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		// A corrupt entry is dropped rather than surfaced.
		_, _ = c.cache.Delete(ctx, runMetricsKey(runID))
		return nil, false, nil
	}
	return &metrics, true, nil
}

// Set stores metrics for a run.
func (c *RunMetricsCache) Set(ctx context.Context, runID string, metrics model.RunMetrics) error {
	if c == nil || c.cache == nil || runID == "" {
		return nil
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal run metrics: %w", err)
	}
	return c.cache.Set(ctx, runMetricsKey(runID), raw, c.ttl)
}

// Invalidate removes cached metrics for a run.
func (c *RunMetricsCache) Invalidate(ctx context.Context, runID string) error {
	if c == nil || c.cache == nil || runID == "" {
		return nil
	}
	_, err := c.cache.Delete(ctx, runMetricsKey(runID))
	return err
}

// runMetricsKey generates the cache key for a run's metrics.
func runMetricsKey(runID string) string {
	return "run:metrics:" + runID
}
