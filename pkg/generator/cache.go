package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// Cache stores rendered generation results.
type Cache interface {
	// Get retrieves a cached result; ErrCacheMiss when absent.
	Get(ctx context.Context, key *CacheKey) (*Result, error)
	// Set stores a result.
	Set(ctx context.Context, key *CacheKey, result *Result) error
	// Stats returns hit/miss statistics.
	Stats(ctx context.Context) (*Stats, error)
	// Close releases resources.
	Close() error
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	ItemCount int64
	HitRate   float64
}

// CacheConfig configures the cache tiers.
type CacheConfig struct {
	EnableL1     bool
	L1MaxEntries int
	L1TTL        time.Duration

	EnableL2      bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	L2TTL         time.Duration
}

// DefaultCacheConfig returns an L1-only configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		EnableL1:     true,
		L1MaxEntries: 1024,
		L1TTL:        time.Hour,
		L2TTL:        24 * time.Hour,
	}
}

// cacheMetrics tracks hit/miss counts
type cacheMetrics struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (m *cacheMetrics) recordHit()  { m.hits.Add(1) }
func (m *cacheMetrics) recordMiss() { m.misses.Add(1) }

// MemoryCache is the in-memory LRU tier.
type MemoryCache struct {
	cache   *lru.LRU[string, *Result]
	metrics *cacheMetrics
}

// NewMemoryCache creates an in-memory LRU cache with TTL support.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries < 10 {
		maxEntries = 10
	}
	return &MemoryCache{
		cache:   lru.NewLRU[string, *Result](maxEntries, nil, ttl),
		metrics: &cacheMetrics{},
	}
}

// Get implements Cache.Get
func (c *MemoryCache) Get(ctx context.Context, key *CacheKey) (*Result, error) {
	if key == nil {
		return nil, ErrInvalidCacheKey
	}
	result, ok := c.cache.Get(key.String())
	if !ok {
		c.metrics.recordMiss()
		return nil, ErrCacheMiss
	}
	c.metrics.recordHit()
	return result, nil
}

// Set implements Cache.Set
func (c *MemoryCache) Set(ctx context.Context, key *CacheKey, result *Result) error {
	if key == nil {
		return ErrInvalidCacheKey
	}
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	c.cache.Add(key.String(), result)
	return nil
}

// Stats implements Cache.Stats
func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Hits:      c.metrics.hits.Load(),
		Misses:    c.metrics.misses.Load(),
		ItemCount: int64(c.cache.Len()),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats, nil
}

// Close implements Cache.Close
func (c *MemoryCache) Close() error {
	c.cache.Purge()
	return nil
}

// RedisCache is the shared L2 tier. Results are stored as JSON.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *cacheMetrics
}

// NewRedisCache creates a Redis-backed cache and verifies connectivity.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl, metrics: &cacheMetrics{}}, nil
}

func redisKey(key *CacheKey) string {
	return "snippetgen:result:" + key.String()
}

// Get implements Cache.Get
func (c *RedisCache) Get(ctx context.Context, key *CacheKey) (*Result, error) {
	if key == nil {
		return nil, ErrInvalidCacheKey
	}
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err == redis.Nil {
		c.metrics.recordMiss()
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	c.metrics.recordHit()
	return &result, nil
}

// Set implements Cache.Set
func (c *RedisCache) Set(ctx context.Context, key *CacheKey, result *Result) error {
	if key == nil {
		return ErrInvalidCacheKey
	}
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Stats implements Cache.Stats
func (c *RedisCache) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Hits:   c.metrics.hits.Load(),
		Misses: c.metrics.misses.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats, nil
}

// Close implements Cache.Close
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MultiLevelCache layers the in-memory tier over Redis. L2 hits are
// promoted into L1; L2 write failures degrade to warnings so generation
// keeps working when Redis is down.
type MultiLevelCache struct {
	l1  *MemoryCache
	l2  *RedisCache
	log *logrus.Logger
}

// NewCache builds the configured cache tiers. At least one tier must be
// enabled.
func NewCache(ctx context.Context, config *CacheConfig, log *logrus.Logger) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if log == nil {
		log = logrus.New()
	}

	mlc := &MultiLevelCache{log: log}
	if config.EnableL1 {
		mlc.l1 = NewMemoryCache(config.L1MaxEntries, config.L1TTL)
	}
	if config.EnableL2 {
		l2, err := NewRedisCache(ctx, config.RedisAddr, config.RedisPassword, config.RedisDB, config.L2TTL)
		if err != nil {
			return nil, err
		}
		mlc.l2 = l2
	}
	if mlc.l1 == nil && mlc.l2 == nil {
		return nil, ErrCacheUnavailable
	}
	return mlc, nil
}

// Get implements Cache.Get
func (c *MultiLevelCache) Get(ctx context.Context, key *CacheKey) (*Result, error) {
	if c.l1 != nil {
		if result, err := c.l1.Get(ctx, key); err == nil {
			return result, nil
		} else if err == ErrInvalidCacheKey {
			return nil, err
		}
	}
	if c.l2 != nil {
		result, err := c.l2.Get(ctx, key)
		if err == nil {
			if c.l1 != nil {
				if setErr := c.l1.Set(ctx, key, result); setErr != nil {
					c.log.WithError(setErr).Warn("failed to promote cache entry to L1")
				}
			}
			return result, nil
		}
		if err != ErrCacheMiss {
			c.log.WithError(err).Warn("L2 cache lookup failed")
		}
	}
	return nil, ErrCacheMiss
}

// Set implements Cache.Set
func (c *MultiLevelCache) Set(ctx context.Context, key *CacheKey, result *Result) error {
	if c.l1 != nil {
		if err := c.l1.Set(ctx, key, result); err != nil {
			return err
		}
	}
	if c.l2 != nil {
		if err := c.l2.Set(ctx, key, result); err != nil {
			c.log.WithError(err).Warn("L2 cache store failed")
		}
	}
	return nil
}

// Stats implements Cache.Stats, aggregating over tiers.
func (c *MultiLevelCache) Stats(ctx context.Context) (*Stats, error) {
	combined := &Stats{}
	if c.l1 != nil {
		stats, err := c.l1.Stats(ctx)
		if err != nil {
			return nil, err
		}
		combined.Hits += stats.Hits
		combined.Misses += stats.Misses
		combined.ItemCount += stats.ItemCount
	}
	if c.l2 != nil {
		stats, err := c.l2.Stats(ctx)
		if err != nil {
			return nil, err
		}
		combined.Hits += stats.Hits
		combined.Misses += stats.Misses
	}
	if total := combined.Hits + combined.Misses; total > 0 {
		combined.HitRate = float64(combined.Hits) / float64(total)
	}
	return combined, nil
}

// Close implements Cache.Close
func (c *MultiLevelCache) Close() error {
	if c.l1 != nil {
		if err := c.l1.Close(); err != nil {
			return err
		}
	}
	if c.l2 != nil {
		return c.l2.Close()
	}
	return nil
}
