package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/database"
	"github.com/osse101/RewardEngine_Go/internal/database/memory"
	"github.com/osse101/RewardEngine_Go/internal/database/postgres"
	"github.com/osse101/RewardEngine_Go/internal/handler"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// localJackpotCacheSize bounds the in-process snapshot cache
const localJackpotCacheSize = 256

// Storage is the selected reward store. DB is nil for the memory store.
type Storage struct {
	Store repository.RewardStore
	DB    database.Pool

	pgPool *pgxpool.Pool
}

// Close releases the database pool, if any.
func (s *Storage) Close() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
}

// InitializeStore opens PostgreSQL and applies migrations, or builds the
// in-memory store when cfg.Store is memory.
func InitializeStore(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn(LogMsgUsingMemoryStore)
		return &Storage{Store: memory.NewStore()}, nil
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      cfg.GetDBConnString(),
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info(LogMsgUsingPostgresStore, "host", cfg.DBHost, "db", cfg.DBName)
	return &Storage{Store: postgres.NewStore(pool), DB: pool, pgPool: pool}, nil
}

// InitializeJackpotCache connects to Redis when configured and otherwise
// keeps snapshots in process. The returned client is nil without Redis.
func InitializeJackpotCache(ctx context.Context, cfg *config.Config) (cache.JackpotCache, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgUsingLocalCache)
		return cache.NewLocalJackpotCache(localJackpotCacheSize, cfg.JackpotCacheTTL), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}

	slog.Info(LogMsgUsingRedisCache, "addr", cfg.RedisAddr)
	return cache.NewRedisJackpotCache(rdb, cfg.JackpotCacheTTL), rdb, nil
}

// ReadinessChecks lists the external dependencies behind /readyz. Either
// argument may be nil.
func ReadinessChecks(storage *Storage, rdb *redis.Client) []handler.DependencyCheck {
	var deps []handler.DependencyCheck
	if storage != nil && storage.DB != nil {
		deps = append(deps, handler.DependencyCheck{Name: "database", Check: storage.DB.Ping})
	}
	if rdb != nil {
		deps = append(deps, handler.DependencyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return deps
}
