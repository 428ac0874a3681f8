package repository

import (
	"context"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// RewardStore defines the data access required by the gacha and wheel services
type RewardStore interface {
	// Transaction support
	BeginPlayerTx(ctx context.Context, playerID string) (RewardTx, error)

	// Unlocked reads
	GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error)
	GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error)
	ListPullRecords(ctx context.Context, playerID string, limit int) ([]domain.PullRecord, error)

	// EnsureJackpot creates the wheel's escrow at its base amount if missing.
	EnsureJackpot(ctx context.Context, wheelID string, baseAmount int64) error
}
