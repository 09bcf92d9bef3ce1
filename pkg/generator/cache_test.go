package generator

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(id string) *CacheKey {
	return &CacheKey{
		Service:    "Adaptation",
		Rpc:        "CreateCustomClass",
		ConfigID:   id,
		APIVersion: "v1",
		Variant:    "sync",
		ConfigHash: "abc123",
	}
}

func testResult() *Result {
	return &Result{
		RegionTag: "speech_v1_config_Adaptation_CreateCustomClass_Basic_sync",
		Filename:  "speech_v1_generated_Adaptation_create_custom_class_Basic_sync.py",
		Code:      "def sample_create_custom_class_Basic():\n    pass\n",
		Sync:      true,
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		cache := NewMemoryCache(64, time.Minute)

		_, err := cache.Get(ctx, testKey("Basic"))
		assert.ErrorIs(t, err, ErrCacheMiss)

		require.NoError(t, cache.Set(ctx, testKey("Basic"), testResult()))
		got, err := cache.Get(ctx, testKey("Basic"))
		require.NoError(t, err)
		assert.Equal(t, testResult().Code, got.Code)

		stats, err := cache.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.Equal(t, int64(1), stats.ItemCount)
		assert.Equal(t, 0.5, stats.HitRate)
	})

	t.Run("nil key rejected", func(t *testing.T) {
		cache := NewMemoryCache(64, time.Minute)
		_, err := cache.Get(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidCacheKey)
		assert.ErrorIs(t, cache.Set(ctx, nil, testResult()), ErrInvalidCacheKey)
	})

	t.Run("nil result rejected", func(t *testing.T) {
		cache := NewMemoryCache(64, time.Minute)
		assert.Error(t, cache.Set(ctx, testKey("Basic"), nil))
	})
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	newTestRedis := func(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
		t.Helper()
		mr := miniredis.RunT(t)
		cache, err := NewRedisCache(ctx, mr.Addr(), "", 0, time.Hour)
		require.NoError(t, err)
		t.Cleanup(func() { _ = cache.Close() })
		return mr, cache
	}

	t.Run("round trip", func(t *testing.T) {
		_, cache := newTestRedis(t)

		_, err := cache.Get(ctx, testKey("Basic"))
		assert.ErrorIs(t, err, ErrCacheMiss)

		require.NoError(t, cache.Set(ctx, testKey("Basic"), testResult()))
		got, err := cache.Get(ctx, testKey("Basic"))
		require.NoError(t, err)
		assert.Equal(t, testResult().RegionTag, got.RegionTag)
		assert.Equal(t, testResult().Code, got.Code)
	})

	t.Run("entries expire", func(t *testing.T) {
		mr, cache := newTestRedis(t)
		require.NoError(t, cache.Set(ctx, testKey("Basic"), testResult()))

		mr.FastForward(2 * time.Hour)

		_, err := cache.Get(ctx, testKey("Basic"))
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("missing address rejected", func(t *testing.T) {
		_, err := NewRedisCache(ctx, "", "", 0, time.Hour)
		assert.Error(t, err)
	})
}

func TestMultiLevelCache(t *testing.T) {
	ctx := context.Background()

	t.Run("L1 only", func(t *testing.T) {
		cache, err := NewCache(ctx, &CacheConfig{
			EnableL1:     true,
			L1MaxEntries: 64,
			L1TTL:        time.Minute,
		}, nil)
		require.NoError(t, err)

		mlc := cache.(*MultiLevelCache)
		assert.NotNil(t, mlc.l1)
		assert.Nil(t, mlc.l2)

		require.NoError(t, cache.Set(ctx, testKey("Basic"), testResult()))
		got, err := cache.Get(ctx, testKey("Basic"))
		require.NoError(t, err)
		assert.Equal(t, testResult().Filename, got.Filename)
	})

	t.Run("L2 hit is promoted to L1", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cache, err := NewCache(ctx, &CacheConfig{
			EnableL1:     true,
			L1MaxEntries: 64,
			L1TTL:        time.Minute,
			EnableL2:     true,
			RedisAddr:    mr.Addr(),
			L2TTL:        time.Hour,
		}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = cache.Close() })

		mlc := cache.(*MultiLevelCache)
		require.NoError(t, mlc.l2.Set(ctx, testKey("Basic"), testResult()))

		got, err := cache.Get(ctx, testKey("Basic"))
		require.NoError(t, err)
		assert.Equal(t, testResult().Code, got.Code)

		// Now present in L1 as well
		promoted, err := mlc.l1.Get(ctx, testKey("Basic"))
		require.NoError(t, err)
		assert.Equal(t, testResult().Code, promoted.Code)
	})

	t.Run("no tiers enabled", func(t *testing.T) {
		_, err := NewCache(ctx, &CacheConfig{}, nil)
		assert.ErrorIs(t, err, ErrCacheUnavailable)
	})

	t.Run("L2 with missing address fails", func(t *testing.T) {
		_, err := NewCache(ctx, &CacheConfig{EnableL2: true}, nil)
		assert.Error(t, err)
	})
}

func TestCacheKeyString(t *testing.T) {
	key := testKey("Basic")
	assert.Equal(t, "Adaptation:CreateCustomClass:Basic:v1:sync:abc123", key.String())
}
