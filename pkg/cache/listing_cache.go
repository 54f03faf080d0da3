package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ListingCache stores the per-user home listing. Every Invalidate moves the
// user to a new generation; Set only stores a listing built during the
// generation it names, so a listing read before a committed change can
// never replace that change's invalidation.
type ListingCache interface {
	Get(ctx context.Context, userId uuid.UUID, dst interface{}) (bool, error)
	Generation(ctx context.Context, userId uuid.UUID) (uint64, error)
	Set(ctx context.Context, userId uuid.UUID, generation uint64, value interface{}) (bool, error)
	Invalidate(ctx context.Context, userId uuid.UUID) error
}

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1])
if not gen then gen = '0' end
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
		prefix: "notebooks:listing:",
	}
}

func (c *RedisListingCache) key(userId uuid.UUID) string {
	return c.prefix + userId.String()
}

func (c *RedisListingCache) generationKey(userId uuid.UUID) string {
	return c.prefix + "gen:" + userId.String()
}

func (c *RedisListingCache) Get(ctx context.Context, userId uuid.UUID, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached listing: %w", err)
	}
	return true, nil
}

func (c *RedisListingCache) Generation(ctx context.Context, userId uuid.UUID) (uint64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(userId)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisListingCache) Set(ctx context.Context, userId uuid.UUID, generation uint64, value interface{}) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{c.generationKey(userId), c.key(userId)},
		strconv.FormatUint(generation, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (c *RedisListingCache) Invalidate(ctx context.Context, userId uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey(userId))
		pipe.Del(ctx, c.key(userId))
		return nil
	})
	return err
}

// MemoryListingCache keeps listings in process. It is used when no redis
// is configured and in tests.
type MemoryListingCache struct {
	mu          sync.Mutex
	items       *gocache.Cache
	generations *gocache.Cache
}

func NewMemoryListingCache(ttl time.Duration) *MemoryListingCache {
	return &MemoryListingCache{
		items:       gocache.New(ttl, 2*ttl),
		generations: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *MemoryListingCache) Get(ctx context.Context, userId uuid.UUID, dst interface{}) (bool, error) {
	raw, ok := c.items.Get(userId.String())
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw.([]byte), dst); err != nil {
		return false, fmt.Errorf("decode cached listing: %w", err)
	}
	return true, nil
}

func (c *MemoryListingCache) generation(key string) uint64 {
	if gen, ok := c.generations.Get(key); ok {
		return gen.(uint64)
	}
	return 0
}

func (c *MemoryListingCache) Generation(ctx context.Context, userId uuid.UUID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(userId.String()), nil
}

func (c *MemoryListingCache) Set(ctx context.Context, userId uuid.UUID, generation uint64, value interface{}) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	key := userId.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation(key) != generation {
		return false, nil
	}
	c.items.SetDefault(key, raw)
	return true, nil
}

func (c *MemoryListingCache) Invalidate(ctx context.Context, userId uuid.UUID) error {
	key := userId.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations.Set(key, c.generation(key)+1, gocache.NoExpiration)
	c.items.Delete(key)
	return nil
}

// NewRedisClient parses a redis:// URL, falling back to treating it as a
// plain address.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}
