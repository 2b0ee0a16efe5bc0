package prices

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func countingLoader(calls *int, items []Listing) Loader {
	return func(ctx context.Context) ([]Listing, error) {
		*calls++
		return items, nil
	}
}

func TestCacheRedisFetchAndInvalidate(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()
	calls := 0
	loader := countingLoader(&calls, []Listing{{ID: 1, Name: "Acme", AC: ptr(10)}})

	first, err := cache.Fetch(ctx, loader)
	require.NoError(t, err)
	second, err := cache.Fetch(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(listingKey(1)))

	require.NoError(t, cache.Invalidate(ctx))
	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)

	_, err = cache.Fetch(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	info, err := cache.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis", info.Backend)
	assert.Equal(t, 1, info.Size)
	assert.True(t, info.Valid)
}

func TestCacheRedisExpires(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()
	calls := 0
	loader := countingLoader(&calls, []Listing{{ID: 1, Name: "Acme"}})

	_, err := cache.Fetch(ctx, loader)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cache.Fetch(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheSkipsEmptyResults(t *testing.T) {
	ctx := context.Background()
	redisCache, _ := newRedisCache(t, time.Hour)
	for name, cache := range map[string]*Cache{"redis": redisCache, "memory": NewCache(nil, time.Hour)} {
		t.Run(name, func(t *testing.T) {
			calls := 0
			loader := countingLoader(&calls, []Listing{})
			_, err := cache.Fetch(ctx, loader)
			require.NoError(t, err)
			_, err = cache.Fetch(ctx, loader)
			require.NoError(t, err)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestCacheMemoryTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCache(nil, time.Hour)
	cache.now = func() time.Time { return now }
	calls := 0
	loader := countingLoader(&calls, []Listing{{ID: 1, Name: "Acme"}})

	_, err := cache.Fetch(ctx, loader)
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	info, err := cache.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", info.Backend)
	assert.True(t, info.Valid)

	now = now.Add(2 * time.Hour)
	_, err = cache.Fetch(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	require.NoError(t, cache.Invalidate(ctx))
	info, err = cache.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Size)
	assert.Equal(t, int64(2), info.Version)
}

func TestNilCacheFallsThrough(t *testing.T) {
	var cache *Cache
	calls := 0
	_, err := cache.Fetch(context.Background(), countingLoader(&calls, []Listing{{Name: "x"}}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, cache.Invalidate(context.Background()))
}
