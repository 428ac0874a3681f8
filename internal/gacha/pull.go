package gacha

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// plan is a validated request ready to run.
type plan struct {
	playerID  string
	attemptID string
	operation string
	pool      *catalog.GachaPool
	banner    *domain.Banner
	count     int
	cost      domain.Cost
	now       time.Time
}

// batch is what a committed plan produced.
type batch struct {
	outcomes []domain.DrawOutcome
	ledger   domain.PityLedger
	balances domain.Balances
}

func (s *service) Pull(ctx context.Context, req PullRequest) (*domain.PullResult, error) {
	start := time.Now()
	defer observe(domain.OperationPull, start)

	p, err := s.prepare(req.PlayerID, req.PoolType, req.BannerID, req.AttemptID, domain.OperationPull, 1)
	if err != nil {
		return nil, err
	}

	var replay domain.PullResult
	if ok, err := s.attempts.Cached(p.playerID, p.attemptID, p.operation, &replay); ok || err != nil {
		return replayed(ctx, &replay, err, &replay.Replayed, p)
	}

	var result *domain.PullResult
	err = s.run(ctx, p, &replay, func(b batch) any {
		result = &domain.PullResult{
			DrawOutcome: b.outcomes[0],
			Cost:        p.cost,
			Pity:        b.ledger,
			Balances:    b.balances,
		}
		return result
	})
	if err != nil {
		if isReplay(err) {
			return replayed(ctx, &replay, nil, &replay.Replayed, p)
		}
		return nil, err
	}
	return result, nil
}

func (s *service) MultiPull(ctx context.Context, req MultiPullRequest) (*domain.MultiPullResult, error) {
	start := time.Now()
	defer observe(domain.OperationMultiPull, start)

	if req.Count < 1 || req.Count > s.catalog.MaxMultiPull {
		return nil, domain.NewValidationError("count", fmt.Sprintf("must be between 1 and %d", s.catalog.MaxMultiPull))
	}

	p, err := s.prepare(req.PlayerID, req.PoolType, req.BannerID, req.AttemptID, domain.OperationMultiPull, req.Count)
	if err != nil {
		return nil, err
	}

	var replay domain.MultiPullResult
	if ok, err := s.attempts.Cached(p.playerID, p.attemptID, p.operation, &replay); ok || err != nil {
		return replayed(ctx, &replay, err, &replay.Replayed, p)
	}

	var result *domain.MultiPullResult
	err = s.run(ctx, p, &replay, func(b batch) any {
		var summary domain.BatchSummary
		for _, o := range b.outcomes {
			summary.Add(o)
		}
		result = &domain.MultiPullResult{
			Items:    b.outcomes,
			Summary:  summary,
			Cost:     p.cost,
			Pity:     b.ledger,
			Balances: b.balances,
		}
		return result
	})
	if err != nil {
		if isReplay(err) {
			return replayed(ctx, &replay, nil, &replay.Replayed, p)
		}
		return nil, err
	}
	return result, nil
}

// prepare validates the request against the catalog. Nothing is mutated.
func (s *service) prepare(playerID, poolType, bannerID, attemptID, operation string, count int) (plan, error) {
	if playerID == "" {
		return plan{}, domain.NewValidationError("player_id", "required")
	}

	pool, ok := s.catalog.Pool(poolType)
	if !ok {
		return plan{}, &domain.ValidationError{Field: "pool_type", Reason: fmt.Sprintf("unknown pool %q", poolType), Err: domain.ErrPoolNotFound}
	}

	now := s.now()
	banner := pool.ActiveBanner(now)
	if bannerID != "" {
		b, ok := pool.Banner(bannerID)
		if !ok {
			return plan{}, &domain.ValidationError{Field: "banner_id", Reason: fmt.Sprintf("banner %q does not belong to pool %s", bannerID, poolType), Err: domain.ErrBannerNotFound}
		}
		if !b.Active(now) {
			return plan{}, domain.NewValidationError("banner_id", fmt.Sprintf("banner %q is not active", bannerID))
		}
		banner = b
	}

	return plan{
		playerID:  playerID,
		attemptID: attemptID,
		operation: operation,
		pool:      pool,
		banner:    banner,
		count:     count,
		cost:      Price(pool, count),
		now:       now,
	}, nil
}

// errReplay aborts run when the attempt was already committed.
var errReplay = errors.New("attempt already committed")

func isReplay(err error) bool { return errors.Is(err, errReplay) }

// run charges the cost and executes every draw in one player transaction.
// build turns the batch into the response that is stored for replays.
func (s *service) run(ctx context.Context, p plan, replay any, build func(batch) any) error {
	log := logger.FromContext(ctx)

	tx, err := s.store.BeginPlayerTx(ctx, p.playerID)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if ok, err := s.attempts.Stored(ctx, tx, p.playerID, p.attemptID, p.operation, replay); err != nil {
		return err
	} else if ok {
		return errReplay
	}

	if err := tx.Spend(ctx, p.playerID, p.cost.Currency, p.cost.Amount); err != nil {
		return err
	}

	ledger, err := tx.GetPity(ctx, p.playerID, p.pool.Pool.Type)
	if err != nil {
		return fmt.Errorf("failed to load pity: %w", err)
	}

	outcomes := make([]domain.DrawOutcome, 0, p.count)
	for i := 0; i < p.count; i++ {
		res, err := s.executor.Execute(ctx, tx, ledger, draw.Request{
			PlayerID:  p.playerID,
			Pool:      p.pool.Pool,
			Base:      p.pool.Base,
			Rules:     p.pool.Rules,
			Banner:    p.banner,
			AttemptID: p.attemptID,
			PullIndex: i,
			Now:       p.now,
		})
		if err != nil {
			return err
		}
		ledger = res.Ledger
		if err := tx.UpsertPity(ctx, ledger); err != nil {
			return fmt.Errorf("failed to save pity: %w", err)
		}
		outcomes = append(outcomes, res.Outcome)
	}

	balances, err := tx.Balances(ctx, p.playerID)
	if err != nil {
		return fmt.Errorf("failed to read balances: %w", err)
	}

	response := build(batch{outcomes: outcomes, ledger: ledger, balances: balances})
	att, err := s.attempts.Save(ctx, tx, p.playerID, p.attemptID, p.operation, response, p.now)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.attempts.Remember(att)

	log.Info(LogMsgPullCompleted,
		"player_id", p.playerID,
		"pool", p.pool.Pool.Type,
		"count", p.count,
		"cost", p.cost.Amount,
		"epic_pity", ledger.EpicPity,
		"legendary_pity", ledger.LegendaryPity)

	s.publish(ctx, p, outcomes)
	return nil
}

func (s *service) publish(ctx context.Context, p plan, outcomes []domain.DrawOutcome) {
	if s.publisher == nil {
		return
	}
	bannerID := ""
	if p.banner != nil {
		bannerID = p.banner.ID
	}
	evt := event.NewPullCompletedEvent(p.playerID, p.pool.Pool.Type, bannerID, p.cost.Amount, outcomes, p.now)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "player_id", p.playerID, "error", err)
	}
}

func replayed[T any](ctx context.Context, result *T, err error, flag *bool, p plan) (*T, error) {
	if err != nil {
		return nil, err
	}
	*flag = true
	logger.FromContext(ctx).Info(LogMsgPullReplayed, "player_id", p.playerID, "attempt_id", p.attemptID)
	return result, nil
}

func observe(operation string, start time.Time) {
	metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
