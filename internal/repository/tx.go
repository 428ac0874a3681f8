package repository

import (
	"context"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// RewardTx is a unit of work owned by one player. Implementations hold the
// player's single-writer lock from BeginPlayerTx until Commit or Rollback,
// so cost, pity, grant and history land together or not at all.
type RewardTx interface {
	Tx

	// Currency ledger
	Spend(ctx context.Context, playerID string, currency domain.Currency, amount int64) error
	Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) error
	Balances(ctx context.Context, playerID string) (domain.Balances, error)

	// Inventory; added is false when the player already owns the item
	TryAddItem(ctx context.Context, playerID, itemID string) (added bool, err error)

	// Pity ledger, keyed by player and pool; a missing row is a zero ledger
	GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error)
	UpsertPity(ctx context.Context, ledger domain.PityLedger) error

	// Free spin streak
	GetFreeSpin(ctx context.Context, playerID string) (domain.FreeSpinState, error)
	UpsertFreeSpin(ctx context.Context, state domain.FreeSpinState) error

	// Jackpot escrow. Contribute and Claim take the wheel's exclusive lock,
	// held until the transaction ends.
	GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error)
	ContributeJackpot(ctx context.Context, wheelID string, amount int64) (domain.JackpotPool, error)
	ClaimJackpot(ctx context.Context, wheelID, winnerID string, now time.Time) (paid int64, pool domain.JackpotPool, err error)

	// History
	AppendPullRecord(ctx context.Context, record domain.PullRecord) error

	// Idempotency
	GetAttempt(ctx context.Context, playerID, attemptID string) (*domain.Attempt, error)
	SaveAttempt(ctx context.Context, attempt domain.Attempt) error
}
