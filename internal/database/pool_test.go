package database

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/RewardEngine_Go/internal/testing/leaktest"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = startPostgres(context.Background())
	}

	code := m.Run()
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (connStr string, terminate func()) {
	terminate = func() {}
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic starting postgres: %v\n", r)
		}
	}()

	c, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("rewards"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: postgres container unavailable: %v\n", err)
		return "", terminate
	}

	connStr, err = c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: no connection string: %v\n", err)
		_ = c.Terminate(ctx)
		return "", terminate
	}
	return connStr, func() {
		if err := c.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}
	pool, err := NewPool(context.Background(), PoolConfig{ConnString: testDBConnString, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPoolConfig_Apply(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/rewards")
	require.NoError(t, err)
	defaultIdle := cfg.MaxConnIdleTime

	PoolConfig{MaxConns: 1, MaxConnLifetime: time.Hour}.apply(cfg)

	assert.Equal(t, int32(DefaultMinConnections), cfg.MaxConns, "max never drops below min")
	assert.Equal(t, int32(DefaultMinConnections), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, defaultIdle, cfg.MaxConnIdleTime, "zero keeps the pgx default")
}

func TestNewPool_BadConnString(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{ConnString: "postgres://%zz"})
	assert.ErrorContains(t, err, ErrMsgFailedToParseConnString)
}

func TestPool_ConcurrentPlayerLocksReleaseConnections(t *testing.T) {
	pool := requireDB(t)
	checker := leaktest.NewGoroutineChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ctx := context.Background()
			tx, err := pool.Begin(ctx)
			if err != nil {
				t.Errorf("worker %d: begin: %v", id, err)
				return
			}
			defer func() { _ = tx.Rollback(ctx) }()

			// Workers share four lock keys, so some of them queue.
			if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(id%4)); err != nil {
				t.Errorf("worker %d: lock: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns(), "every connection is back in the pool")
	checker.Check(2)
}

func TestMigrate_CreatesRewardTables(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "second run is a no-op")

	for _, table := range []string{"player_balances", "player_items", "pity_ledgers", "free_spin_states", "jackpot_pools", "pull_records", "reward_attempts"} {
		var exists bool
		err := pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}
