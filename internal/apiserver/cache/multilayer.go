package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Layer identifies where a cached value was found
type Layer string

const (
	L1Memory Layer = "L1_MEMORY"
	L2Redis  Layer = "L2_REDIS"
)

// Stats represents cache statistics
type Stats struct {
	L1Hits  int64 `json:"l1Hits"`
	L2Hits  int64 `json:"l2Hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// MultiLayerConfig holds configuration for the cache
type MultiLayerConfig struct {
	RedisClient redis.Cmdable
	KeyPrefix   string
	// L1TTL of 0 disables the in-process layer
	L1TTL time.Duration
	L2TTL time.Duration
	// MaxL1Entries bounds the in-process layer
	MaxL1Entries int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// MultiLayer keeps JSON encoded values in redis with an optional short-lived
// in-process layer in front of it. Either layer may be absent.
type MultiLayer[V any] struct {
	logger *zap.Logger
	rdb    redis.Cmdable
	prefix string
	l1TTL  time.Duration
	l2TTL  time.Duration
	maxL1  int
	now    func() time.Time

	mu    sync.Mutex
	items map[string]entry[V]

	l1Hits atomic.Int64
	l2Hits atomic.Int64
	misses atomic.Int64
}

// NewMultiLayer creates a new multi-layer cache instance
func NewMultiLayer[V any](cfg MultiLayerConfig, logger *zap.Logger) *MultiLayer[V] {
	if cfg.L2TTL <= 0 {
		cfg.L2TTL = 5 * time.Minute
	}
	if cfg.MaxL1Entries <= 0 {
		cfg.MaxL1Entries = 10000
	}
	return &MultiLayer[V]{
		logger: logger.Named("cache.multilayer"),
		rdb:    cfg.RedisClient,
		prefix: cfg.KeyPrefix,
		l1TTL:  cfg.L1TTL,
		l2TTL:  cfg.L2TTL,
		maxL1:  cfg.MaxL1Entries,
		now:    time.Now,
		items:  make(map[string]entry[V]),
	}
}

// Get looks the key up in L1, then L2. A value found in L2 is promoted to L1.
func (c *MultiLayer[V]) Get(ctx context.Context, key string) (V, Layer, bool) {
	if v, ok := c.getL1(key); ok {
		c.l1Hits.Add(1)
		return v, L1Memory, true
	}
	if v, ok := c.getL2(ctx, key); ok {
		c.l2Hits.Add(1)
		c.setL1(key, v)
		return v, L2Redis, true
	}
	c.misses.Add(1)
	var zero V
	return zero, "", false
}

// Set stores the value in both layers.
func (c *MultiLayer[V]) Set(ctx context.Context, key string, v V) error {
	c.setL1(key, v)
	if c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return c.rdb.Set(ctx, c.prefix+key, data, c.l2TTL).Err()
}

// Delete removes the key from both layers.
func (c *MultiLayer[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.prefix+key).Err()
}

// Stats returns current cache statistics
func (c *MultiLayer[V]) Stats() Stats {
	c.mu.Lock()
	n := len(c.items)
	c.mu.Unlock()
	return Stats{
		L1Hits:  c.l1Hits.Load(),
		L2Hits:  c.l2Hits.Load(),
		Misses:  c.misses.Load(),
		Entries: n,
	}
}

func (c *MultiLayer[V]) getL1(key string) (V, bool) {
	var zero V
	if c.l1TTL <= 0 {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

func (c *MultiLayer[V]) setL1(key string, v V) {
	if c.l1TTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= c.maxL1 {
		c.evict()
	}
	c.items[key] = entry[V]{value: v, expiresAt: c.now().Add(c.l1TTL)}
}

// evict drops expired entries, or an arbitrary one when nothing has expired.
// Callers hold mu.
func (c *MultiLayer[V]) evict() {
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
		}
	}
	if len(c.items) < c.maxL1 {
		return
	}
	for k := range c.items {
		delete(c.items, k)
		return
	}
}

func (c *MultiLayer[V]) getL2(ctx context.Context, key string) (V, bool) {
	var v V
	if c.rdb == nil {
		return v, false
	}
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false
	}
	if err != nil {
		c.logger.Warn("failed to get from L2 cache", zap.String("key", key), zap.Error(err))
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}
