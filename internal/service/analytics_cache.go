package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// analyticsCacheEntry is the single slot: one snapshot tagged with the scope
// it was computed for and the time it was stored.
type analyticsCacheEntry struct {
	Scope     string                   `json:"scope"`
	Snapshot  models.AnalyticsSnapshot `json:"snapshot"`
	Timestamp time.Time                `json:"timestamp"`
}

// AnalyticsCache is the fast analytics tier. It holds at most one snapshot;
// storing a snapshot for any scope evicts whatever was there before. A
// lookup hits only when the requested scope matches the stored scope exactly
// and the entry is younger than the TTL. The slot is mirrored to Redis so a
// restarted process can warm up from its last state; the durable snapshot
// tier is managed separately and never synchronised with this one.
type AnalyticsCache struct {
	mu     sync.Mutex
	entry  *analyticsCacheEntry
	ttl    time.Duration
	cache  *CacheService
	key    string
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsCache constructs the single-slot cache and warms it from the
// Redis mirror when one is available.
func NewAnalyticsCache(cache *CacheService, ttl time.Duration, keyPrefix string, logger *zap.Logger) *AnalyticsCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if keyPrefix == "" {
		keyPrefix = "analytics"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &AnalyticsCache{
		ttl:    ttl,
		cache:  cache,
		key:    keyPrefix + ":slot",
		logger: logger,
		now:    time.Now,
	}
	c.warm()
	return c
}

func (c *AnalyticsCache) warm() {
	if c.cache == nil || !c.cache.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var entry analyticsCacheEntry
	hit, err := c.cache.Get(ctx, c.key, &entry)
	if err != nil || !hit {
		return
	}
	c.mu.Lock()
	c.entry = &entry
	c.mu.Unlock()
	c.logger.Info("analytics cache warmed from redis", zap.String("scope", entry.Scope))
}

// Get returns the cached snapshot when the stored scope matches the request
// and the entry has not aged out. A stale or mismatched entry reads as
// absent without being evicted; the next Set overwrites it anyway.
func (c *AnalyticsCache) Get(scope string) (models.AnalyticsSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.entry.Scope != scope {
		return models.AnalyticsSnapshot{}, false
	}
	if c.now().Sub(c.entry.Timestamp) >= c.ttl {
		return models.AnalyticsSnapshot{}, false
	}
	return c.entry.Snapshot, true
}

// Set replaces the slot with a snapshot for the given scope and mirrors it
// to Redis. Mirror failures are logged and otherwise ignored; the in-memory
// slot is authoritative for the running process.
func (c *AnalyticsCache) Set(ctx context.Context, scope string, snapshot models.AnalyticsSnapshot) {
	entry := &analyticsCacheEntry{Scope: scope, Snapshot: snapshot, Timestamp: c.now()}

	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()

	if c.cache != nil && c.cache.Enabled() {
		if err := c.cache.Set(ctx, c.key, entry, c.ttl); err != nil {
			c.logger.Warn("analytics cache mirror failed", zap.Error(err))
		}
	}
}

// Clear forces the absent state and drops the Redis mirror.
func (c *AnalyticsCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()

	if c.cache != nil && c.cache.Enabled() {
		if err := c.cache.Delete(ctx, c.key); err != nil {
			c.logger.Warn("analytics cache mirror delete failed", zap.Error(err))
		}
	}
}
