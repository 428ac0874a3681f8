package audit

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/database/memory"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
)

// Options controls a simulation run.
type Options struct {
	PoolType       string
	Players        int
	PullsPerPlayer int
	// BatchSize 1 uses single pulls; larger sizes use multi-pulls.
	BatchSize int
	Seed      uint64
}

// Validate rejects options the engine would refuse.
func (o Options) Validate(cat *catalog.Catalog) error {
	if _, ok := cat.Pool(o.PoolType); !ok {
		return fmt.Errorf("unknown pool %q", o.PoolType)
	}
	if o.Players < 1 || o.PullsPerPlayer < 1 {
		return fmt.Errorf("players and pulls must be positive")
	}
	if o.BatchSize < 1 || o.BatchSize > cat.MaxMultiPull {
		return fmt.Errorf("batch size must be between 1 and %d", cat.MaxMultiPull)
	}
	return nil
}

// Run draws PullsPerPlayer for each simulated player through the gacha
// service on a private memory store, with a seeded RNG so runs repeat.
func Run(ctx context.Context, cat *catalog.Catalog, opts Options) (Report, error) {
	if err := opts.Validate(cat); err != nil {
		return Report{}, err
	}
	pool, _ := cat.Pool(opts.PoolType)

	store := memory.NewStore()
	executor := draw.NewExecutor(sampler.New(sampler.NewSeededSource(opts.Seed)), grant.NewResolver(cat.Compensation))
	svc := gacha.NewService(store, cat, executor, draw.NewAttempts(nil), nil)

	budget := pool.Cost.Amount * int64(opts.PullsPerPlayer)
	if pool.Cost.Amount > 0 && budget/pool.Cost.Amount != int64(opts.PullsPerPlayer) {
		budget = math.MaxInt64
	}

	collector := NewCollector(pool.Rules)
	log := logger.FromContext(ctx)

	for p := range opts.Players {
		playerID := fmt.Sprintf("sim-%06d", p)
		if err := store.SeedBalances(ctx, playerID, domain.Balances{pool.Cost.Currency: budget}); err != nil {
			return Report{}, err
		}

		for done := 0; done < opts.PullsPerPlayer; {
			n := min(opts.BatchSize, opts.PullsPerPlayer-done)
			outcomes, err := pullBatch(ctx, svc, playerID, opts.PoolType, n)
			if err != nil {
				return Report{}, fmt.Errorf("player %s after %d pulls: %w", playerID, done, err)
			}
			for _, o := range outcomes {
				collector.Observe(playerID, o)
			}
			done += n
		}

		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if (p+1)%ProgressEvery == 0 {
			log.Debug(LogMsgProgress, "players", p+1, "of", opts.Players)
		}
	}

	return collector.Report(opts.PoolType, opts.Players, pool.Base), nil
}

func pullBatch(ctx context.Context, svc gacha.Service, playerID, poolType string, n int) ([]domain.DrawOutcome, error) {
	if n == 1 {
		res, err := svc.Pull(ctx, gacha.PullRequest{PlayerID: playerID, PoolType: poolType})
		if err != nil {
			return nil, err
		}
		return []domain.DrawOutcome{res.DrawOutcome}, nil
	}
	res, err := svc.MultiPull(ctx, gacha.MultiPullRequest{PlayerID: playerID, PoolType: poolType, Count: n})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}
