// Package postgres is the PostgreSQL RewardStore. Player transactions are
// serialized with transaction-scoped advisory locks; jackpot rows are
// locked with SELECT ... FOR UPDATE after the player lock.
package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/pity"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Store implements repository.RewardStore over a pgx pool.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a Store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

var _ repository.RewardStore = (*Store)(nil)

// BeginPlayerTx opens a transaction holding the player's advisory lock.
// Advisory locks work even when the player has no rows yet.
func (s *Store) BeginPlayerTx(ctx context.Context, playerID string) (repository.RewardTx, error) {
	pgTx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}

	if _, err := pgTx.Exec(ctx, SQLAdvisoryLock, playerLockKey(playerID)); err != nil {
		_ = pgTx.Rollback(ctx)
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToLockPlayer, playerID, err)
	}

	return &tx{tx: pgTx, playerID: playerID}, nil
}

// GetPity reads the committed ledger of one pool without locking the player.
func (s *Store) GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error) {
	return getPity(ctx, s.db, playerID, poolType)
}

// GetJackpot reads the committed escrow of a wheel.
func (s *Store) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	return scanJackpot(s.db.QueryRow(ctx, SQLSelectJackpot, wheelID), wheelID)
}

// ListPullRecords returns the newest records first.
func (s *Store) ListPullRecords(ctx context.Context, playerID string, limit int) ([]domain.PullRecord, error) {
	rows, err := s.db.Query(ctx, SQLListPullRecords, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPullRecords, err)
	}
	defer rows.Close()

	records := make([]domain.PullRecord, 0, limit)
	for rows.Next() {
		var (
			r      domain.PullRecord
			rarity string
		)
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.PoolType, &r.BannerID, &r.ItemID, &rarity,
			&r.WasFeatured, &r.PullIndex, &r.WasPityTriggered, &r.AttemptID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPullRecords, err)
		}
		r.Rarity = domain.Rarity(rarity)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPullRecords, err)
	}
	return records, nil
}

// EnsureJackpot seeds a wheel's escrow at its base amount if missing.
func (s *Store) EnsureJackpot(ctx context.Context, wheelID string, baseAmount int64) error {
	if _, err := s.db.Exec(ctx, SQLEnsureJackpot, wheelID, baseAmount); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgFailedToEnsureJackpot, wheelID, err)
	}
	return nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPity(ctx context.Context, q querier, playerID, poolType string) (domain.PityLedger, error) {
	ledger := pity.New(playerID, poolType)
	err := q.QueryRow(ctx, SQLSelectPity, playerID, poolType).
		Scan(&ledger.EpicPity, &ledger.LegendaryPity, &ledger.TotalPulls, &ledger.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pity.New(playerID, poolType), nil
		}
		return domain.PityLedger{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetPity, err)
	}
	return ledger, nil
}

func scanJackpot(row pgx.Row, wheelID string) (domain.JackpotPool, error) {
	var pool domain.JackpotPool
	err := row.Scan(&pool.WheelID, &pool.CurrentAmount, &pool.BaseAmount,
		&pool.LastWinnerID, &pool.LastWinAmount, &pool.LastWinTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JackpotPool{}, fmt.Errorf("%w: %s", domain.ErrWheelNotFound, wheelID)
		}
		return domain.JackpotPool{}, fmt.Errorf("%s %s: %w", ErrMsgFailedToGetJackpot, wheelID, err)
	}
	return pool, nil
}

// playerLockKey creates a consistent int64 hash for advisory locking
func playerLockKey(playerID string) int64 {
	h := sha256.Sum256([]byte(PlayerLockNamespace + playerID))
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}
