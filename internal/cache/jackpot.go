package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// JackpotCache stores the latest committed snapshot of each wheel escrow.
type JackpotCache interface {
	Get(ctx context.Context, wheelID string) (domain.JackpotPool, bool)
	Set(ctx context.Context, pool domain.JackpotPool)
}

// JackpotSource is the authoritative reader behind the cache.
type JackpotSource interface {
	GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error)
}

// LocalJackpotCache is a process-local JackpotCache.
type LocalJackpotCache struct {
	lru *expirable.LRU[string, domain.JackpotPool]
}

// NewLocalJackpotCache creates a LocalJackpotCache.
func NewLocalJackpotCache(size int, ttl time.Duration) *LocalJackpotCache {
	return &LocalJackpotCache{lru: expirable.NewLRU[string, domain.JackpotPool](size, nil, ttl)}
}

func (c *LocalJackpotCache) Get(_ context.Context, wheelID string) (domain.JackpotPool, bool) {
	return c.lru.Get(wheelID)
}

func (c *LocalJackpotCache) Set(_ context.Context, pool domain.JackpotPool) {
	c.lru.Add(pool.WheelID, pool)
}

// RedisJackpotCache shares snapshots across instances.
type RedisJackpotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisJackpotCache creates a RedisJackpotCache.
func NewRedisJackpotCache(rdb *redis.Client, ttl time.Duration) *RedisJackpotCache {
	return &RedisJackpotCache{rdb: rdb, ttl: ttl}
}

func jackpotKey(wheelID string) string { return fmt.Sprintf("jackpot:%s:v%s", wheelID, SchemaVersion) }

func (c *RedisJackpotCache) Get(ctx context.Context, wheelID string) (domain.JackpotPool, bool) {
	data, err := c.rdb.Get(ctx, jackpotKey(wheelID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn(LogMsgRedisGetFailed, "wheel", wheelID, "error", err)
		}
		return domain.JackpotPool{}, false
	}
	var pool domain.JackpotPool
	if err := json.Unmarshal(data, &pool); err != nil {
		return domain.JackpotPool{}, false
	}
	return pool, true
}

func (c *RedisJackpotCache) Set(ctx context.Context, pool domain.JackpotPool) {
	data, err := json.Marshal(pool)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, jackpotKey(pool.WheelID), data, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn(LogMsgRedisSetFailed, "wheel", pool.WheelID, "error", err)
	}
}

// JackpotReader reads snapshots through a cache. Escrow mutations never go
// through it; they refresh it from committed events.
type JackpotReader struct {
	source JackpotSource
	cache  JackpotCache
}

// NewJackpotReader creates a JackpotReader.
func NewJackpotReader(source JackpotSource, cache JackpotCache) *JackpotReader {
	return &JackpotReader{source: source, cache: cache}
}

// GetJackpot returns the cached snapshot or loads and caches it.
func (r *JackpotReader) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	if pool, ok := r.cache.Get(ctx, wheelID); ok {
		return pool, nil
	}
	pool, err := r.source.GetJackpot(ctx, wheelID)
	if err != nil {
		return domain.JackpotPool{}, err
	}
	r.cache.Set(ctx, pool)
	return pool, nil
}

// Register refreshes the cache from jackpot events.
func (r *JackpotReader) Register(bus event.Bus) {
	bus.Subscribe(event.JackpotUpdated, r.handle)
	bus.Subscribe(event.JackpotWon, r.handle)
}

func (r *JackpotReader) handle(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.JackpotPayloadV1](evt.Payload)
	if err != nil {
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	r.cache.Set(ctx, p.Pool)
	return nil
}
