// Package gacha sequences paid loot box pulls: it prices the request,
// charges it, runs each draw against the live pity ledger and records the
// outcome in one player transaction.
package gacha

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// PullRequest asks for one draw.
type PullRequest struct {
	PlayerID  string
	PoolType  string
	BannerID  string
	AttemptID string
}

// MultiPullRequest asks for Count draws paid as one purchase.
type MultiPullRequest struct {
	PlayerID  string
	PoolType  string
	Count     int
	BannerID  string
	AttemptID string
}

// Service defines the gacha operations
type Service interface {
	Pull(ctx context.Context, req PullRequest) (*domain.PullResult, error)
	MultiPull(ctx context.Context, req MultiPullRequest) (*domain.MultiPullResult, error)
	GetOdds(ctx context.Context, poolType, region string) (*domain.OddsResult, error)
	GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error)
	History(ctx context.Context, playerID string, limit int) ([]domain.PullRecord, error)
}

type service struct {
	store     repository.RewardStore
	catalog   *catalog.Catalog
	executor  *draw.Executor
	attempts  *draw.Attempts
	publisher event.Bus
	now       func() time.Time
}

// NewService creates a gacha service. publisher may be nil.
func NewService(store repository.RewardStore, cat *catalog.Catalog, executor *draw.Executor, attempts *draw.Attempts, publisher event.Bus) Service {
	return &service{
		store:     store,
		catalog:   cat,
		executor:  executor,
		attempts:  attempts,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error) {
	if playerID == "" {
		return domain.PityLedger{}, domain.NewValidationError("player_id", "required")
	}
	if _, ok := s.catalog.Pool(poolType); !ok {
		return domain.PityLedger{}, &domain.ValidationError{Field: "pool", Reason: fmt.Sprintf("unknown pool %q", poolType), Err: domain.ErrPoolNotFound}
	}
	return s.store.GetPity(ctx, playerID, poolType)
}

func (s *service) History(ctx context.Context, playerID string, limit int) ([]domain.PullRecord, error) {
	if playerID == "" {
		return nil, domain.NewValidationError("player_id", "required")
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return s.store.ListPullRecords(ctx, playerID, limit)
}
