package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheVersionKey = "prices:version"
	cacheListingKey = "prices:listing"
	bumpChannel     = "prices.bump"
)

// Loader produces the listing when the cache misses.
type Loader func(ctx context.Context) ([]Listing, error)

// CacheInfo describes the cache state for the admin panel.
type CacheInfo struct {
	Backend   string     `json:"backend"`
	Version   int64      `json:"version"`
	Size      int        `json:"size"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Valid     bool       `json:"valid"`
}

// Cache is the read-through cache in front of the public listing. Redis backs
// it when a client is configured, otherwise a process local snapshot is kept.
// Empty listings are never cached.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time

	mu        sync.Mutex
	local     []Listing
	fetchedAt time.Time
	version   int64
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, now: time.Now, version: 1}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.version, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, cacheVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Fetch returns the cached listing or populates it using the loader.
func (c *Cache) Fetch(ctx context.Context, loader Loader) ([]Listing, error) {
	if loader == nil {
		return nil, errors.New("prices: cache loader required")
	}
	if c == nil {
		return loader(ctx)
	}
	if c.client == nil {
		return c.fetchLocal(ctx, loader)
	}

	key, err := c.key(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []Listing
		if jsonErr := json.Unmarshal(payload, &items); jsonErr == nil {
			return items, nil
		}
	case !errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("prices: cache get: %w", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := c.setRemote(ctx, key, items); err != nil {
				return nil, err
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Listing), nil
}

// Store replaces the cached listing, used by the warmup job.
func (c *Cache) Store(ctx context.Context, items []Listing) error {
	if c == nil || len(items) == 0 {
		return nil
	}
	if c.client == nil {
		c.mu.Lock()
		c.local = append([]Listing(nil), items...)
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return err
	}
	return c.setRemote(ctx, key, items)
}

// Invalidate drops the cached listing by bumping the version.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		c.mu.Lock()
		c.local = nil
		c.fetchedAt = time.Time{}
		c.version++
		c.mu.Unlock()
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("prices: cache bump: %w", err)
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// Info reports the current state of the cache.
func (c *Cache) Info(ctx context.Context) (CacheInfo, error) {
	if c == nil {
		return CacheInfo{Backend: "none"}, nil
	}
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		info := CacheInfo{Backend: "memory", Version: c.version, Size: len(c.local)}
		if !c.fetchedAt.IsZero() {
			fetched := c.fetchedAt
			info.FetchedAt = &fetched
			info.Valid = len(c.local) > 0 && c.now().Sub(c.fetchedAt) < c.ttl
		}
		return info, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return CacheInfo{}, err
	}
	info := CacheInfo{Backend: "redis", Version: ver}
	payload, err := c.client.Get(ctx, listingKey(ver)).Bytes()
	if errors.Is(err, redis.Nil) {
		return info, nil
	}
	if err != nil {
		return CacheInfo{}, err
	}
	var items []Listing
	if err := json.Unmarshal(payload, &items); err == nil {
		info.Size = len(items)
		info.Valid = true
	}
	return info, nil
}

func (c *Cache) fetchLocal(ctx context.Context, loader Loader) ([]Listing, error) {
	c.mu.Lock()
	if len(c.local) > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		items := append([]Listing(nil), c.local...)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(cacheListingKey, func() (any, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			c.mu.Lock()
			c.local = append([]Listing(nil), items...)
			c.fetchedAt = c.now()
			c.mu.Unlock()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]Listing(nil), v.([]Listing)...), nil
}

func (c *Cache) setRemote(ctx context.Context, key string, items []Listing) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("prices: cache set: %w", err)
	}
	return nil
}

func (c *Cache) key(ctx context.Context) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("prices: cache version: %w", err)
	}
	return listingKey(ver), nil
}

func listingKey(ver int64) string {
	return cacheListingKey + ":" + strconv.FormatInt(ver, 10)
}
