package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// statsTTL keeps dashboard numbers fresh enough for the console while
// shielding the database from per-pageview aggregate queries.
const statsTTL = 60 * time.Second

// DashboardStats holds the aggregate counters rendered on the admin dashboard.
type DashboardStats struct {
	TotalUsers          int       `json:"totalUsers"`
	ActiveSubscriptions int       `json:"activeSubscriptions"`
	CreditsUsedTotal    int       `json:"creditsUsedTotal"`
	SignupsLast30Days   int       `json:"signupsLast30Days"`
	ActiveImpersonation int       `json:"activeImpersonation"`
	CachedAt            time.Time `json:"cachedAt"`
}

// StatsCache caches dashboard aggregates in Redis.
type StatsCache struct {
	redis *RedisClient
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(redis *RedisClient) *StatsCache {
	return &StatsCache{redis: redis}
}

func (c *StatsCache) key() string {
	return "dashboard:stats"
}

// Set stores the stats snapshot with the fixed TTL.
func (c *StatsCache) Set(ctx context.Context, stats *DashboardStats) error {
	stats.CachedAt = time.Now()

	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard stats: %w", err)
	}

	return c.redis.Set(ctx, c.key(), string(jsonData), statsTTL)
}

// Get retrieves the cached snapshot. A cache miss surfaces as the underlying
// redis error; callers fall through to the database.
func (c *StatsCache) Get(ctx context.Context) (*DashboardStats, error) {
	jsonData, err := c.redis.Get(ctx, c.key())
	if err != nil {
		return nil, err
	}

	var stats DashboardStats
	if err := json.Unmarshal([]byte(jsonData), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard stats: %w", err)
	}

	return &stats, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, c.key())
}
