// Package wheel runs prize wheel spins: premium spins feed and may win the
// shared jackpot, free spins follow a daily streak.
package wheel

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// SpinRequest asks for one wheel spin.
type SpinRequest struct {
	PlayerID  string
	WheelID   string
	SpinType  domain.SpinType
	AttemptID string
}

// Service defines the wheel operations
type Service interface {
	SpinWheel(ctx context.Context, req SpinRequest) (*domain.SpinResult, error)
	GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error)
	EnsureJackpots(ctx context.Context) error
}

type service struct {
	store     repository.RewardStore
	catalog   *catalog.Catalog
	executor  *draw.Executor
	attempts  *draw.Attempts
	jackpots  cache.JackpotSource
	publisher event.Bus
	now       func() time.Time
}

// NewService creates a wheel service. jackpots serves snapshot reads and
// defaults to the store; publisher may be nil.
func NewService(store repository.RewardStore, cat *catalog.Catalog, executor *draw.Executor, attempts *draw.Attempts, jackpots cache.JackpotSource, publisher event.Bus) Service {
	if jackpots == nil {
		jackpots = store
	}
	return &service{
		store:     store,
		catalog:   cat,
		executor:  executor,
		attempts:  attempts,
		jackpots:  jackpots,
		publisher: publisher,
		now:       time.Now,
	}
}

// EnsureJackpots seeds every configured wheel's escrow at its base amount.
func (s *service) EnsureJackpots(ctx context.Context) error {
	for id, w := range s.catalog.Wheels {
		if err := s.store.EnsureJackpot(ctx, id, w.JackpotBase); err != nil {
			return fmt.Errorf("failed to ensure jackpot %s: %w", id, err)
		}
		logger.FromContext(ctx).Info(LogMsgJackpotEnsured, "wheel", id, "base", w.JackpotBase)
	}
	return nil
}

func (s *service) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	if _, ok := s.catalog.Wheel(wheelID); !ok {
		return domain.JackpotPool{}, unknownWheel(wheelID)
	}
	return s.jackpots.GetJackpot(ctx, wheelID)
}

func (s *service) SpinWheel(ctx context.Context, req SpinRequest) (*domain.SpinResult, error) {
	start := time.Now()
	defer func() {
		metrics.OperationDuration.WithLabelValues(domain.OperationSpin).Observe(time.Since(start).Seconds())
	}()

	if req.PlayerID == "" {
		return nil, domain.NewValidationError("player_id", "required")
	}
	w, ok := s.catalog.Wheel(req.WheelID)
	if !ok {
		return nil, unknownWheel(req.WheelID)
	}
	if !req.SpinType.Valid() {
		return nil, domain.NewValidationError("spin_type", fmt.Sprintf("must be %s or %s", domain.SpinTypeFree, domain.SpinTypePremium))
	}

	var result domain.SpinResult
	if ok, err := s.attempts.Cached(req.PlayerID, req.AttemptID, domain.OperationSpin, &result); err != nil {
		return nil, err
	} else if ok {
		return s.replayed(ctx, req, &result), nil
	}

	now := s.now()
	tx, err := s.store.BeginPlayerTx(ctx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if ok, err := s.attempts.Stored(ctx, tx, req.PlayerID, req.AttemptID, domain.OperationSpin, &result); err != nil {
		return nil, err
	} else if ok {
		return s.replayed(ctx, req, &result), nil
	}

	state, err := tx.GetFreeSpin(ctx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load free spin state: %w", err)
	}
	state.PlayerID = req.PlayerID

	dr := draw.Request{
		PlayerID:   req.PlayerID,
		Pool:       w.Pool,
		AttemptID:  req.AttemptID,
		Multiplier: grant.NoMultiplier,
		Now:        now,
	}
	var contributed *domain.JackpotPool

	switch req.SpinType {
	case domain.SpinTypePremium:
		if err := tx.Spend(ctx, req.PlayerID, w.SpinCost.Currency, w.SpinCost.Amount); err != nil {
			return nil, err
		}
		if w.JackpotContribution > 0 {
			pool, err := tx.ContributeJackpot(ctx, w.ID, w.JackpotContribution)
			if err != nil {
				return nil, fmt.Errorf("failed to contribute to jackpot: %w", err)
			}
			contributed = &pool
		}
		dr.Base = w.Base
		dr.WheelID = w.ID

	case domain.SpinTypeFree:
		state, err = claimFreeSpin(w, state, now)
		if err != nil {
			return nil, err
		}
		if err := tx.UpsertFreeSpin(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to save free spin state: %w", err)
		}
		dr.Base = w.FreeBase
		dr.Multiplier = StreakMultiplier(w, state.ConsecutiveDays)
	}

	res, err := s.executor.Execute(ctx, tx, domain.PityLedger{PlayerID: req.PlayerID, PoolType: w.ID}, dr)
	if err != nil {
		return nil, err
	}

	var jackpot domain.JackpotPool
	switch {
	case res.Jackpot != nil:
		jackpot = *res.Jackpot
	case contributed != nil:
		jackpot = *contributed
	default:
		if jackpot, err = tx.GetJackpot(ctx, w.ID); err != nil {
			return nil, fmt.Errorf("failed to read jackpot: %w", err)
		}
	}

	balances, err := tx.Balances(ctx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balances: %w", err)
	}

	result = domain.SpinResult{
		DrawOutcome:    res.Outcome,
		SpinType:       req.SpinType,
		Jackpot:        jackpot,
		JackpotWon:     res.Jackpot != nil,
		FreeSpin:       state,
		NextFreeSpinAt: NextFreeSpinAt(w, state, now),
		Balances:       balances,
	}
	if req.SpinType == domain.SpinTypeFree {
		mult := dr.Multiplier.String()
		result.BonusMultiplier = &mult
	}

	att, err := s.attempts.Save(ctx, tx, req.PlayerID, req.AttemptID, domain.OperationSpin, result, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.attempts.Remember(att)

	log := logger.FromContext(ctx)
	log.Info(LogMsgSpinCompleted,
		"player_id", req.PlayerID,
		"wheel", w.ID,
		"spin_type", req.SpinType,
		"item", res.Outcome.Item.ID,
		"rarity", res.Outcome.Rarity)
	if result.JackpotWon {
		log.Info(LogMsgJackpotWon, "player_id", req.PlayerID, "wheel", w.ID, "amount", res.Outcome.Grant.Amount)
	}

	s.publish(ctx, req, &result, contributed != nil, now)
	return &result, nil
}

func (s *service) publish(ctx context.Context, req SpinRequest, result *domain.SpinResult, contributed bool, now time.Time) {
	if s.publisher == nil {
		return
	}
	events := []event.Event{
		event.NewSpinCompletedEvent(req.PlayerID, req.WheelID, req.SpinType, result.DrawOutcome, result.FreeSpin.ConsecutiveDays, now),
	}
	switch {
	case result.JackpotWon:
		events = append(events, event.NewJackpotWonEvent(result.Jackpot, req.PlayerID, result.Grant.Amount, now))
	case contributed:
		events = append(events, event.NewJackpotUpdatedEvent(result.Jackpot, now))
	}
	for _, evt := range events {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
		}
	}
}

func (s *service) replayed(ctx context.Context, req SpinRequest, result *domain.SpinResult) *domain.SpinResult {
	result.Replayed = true
	logger.FromContext(ctx).Info(LogMsgSpinReplayed, "player_id", req.PlayerID, "attempt_id", req.AttemptID)
	return result
}

func unknownWheel(id string) error {
	return &domain.ValidationError{Field: "wheel_id", Reason: fmt.Sprintf("unknown wheel %q", id), Err: domain.ErrWheelNotFound}
}
