package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// tx is a player-scoped pgx transaction.
type tx struct {
	tx       pgx.Tx
	playerID string
}

func (t *tx) check(playerID string) error {
	if playerID != t.playerID {
		return fmt.Errorf("transaction for %s cannot touch player %s", t.playerID, playerID)
	}
	return nil
}

func (t *tx) Spend(ctx context.Context, playerID string, currency domain.Currency, amount int64) error {
	if err := t.check(playerID); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative spend %d", domain.ErrValidation, amount)
	}
	if amount == 0 {
		return nil
	}

	var remaining int64
	err := t.tx.QueryRow(ctx, SQLSpend, playerID, string(currency), amount).Scan(&remaining)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSpend, mapTxErr(err))
	}

	var have int64
	if err := t.tx.QueryRow(ctx, SQLSelectBalance, playerID, string(currency)).Scan(&have); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSpend, mapTxErr(err))
	}
	return &domain.InsufficientFundsError{Currency: currency, Need: amount, Have: have}
}

func (t *tx) Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) error {
	if err := t.check(playerID); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative credit %d", domain.ErrValidation, amount)
	}
	if _, err := t.tx.Exec(ctx, SQLCredit, playerID, string(currency), amount); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCredit, mapTxErr(err))
	}
	return nil
}

func (t *tx) Balances(ctx context.Context, playerID string) (domain.Balances, error) {
	if err := t.check(playerID); err != nil {
		return nil, err
	}
	rows, err := t.tx.Query(ctx, SQLSelectBalances, playerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalances, mapTxErr(err))
	}
	defer rows.Close()

	out := make(domain.Balances)
	for rows.Next() {
		var (
			currency string
			amount   int64
		)
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalances, err)
		}
		out[domain.Currency(currency)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalances, err)
	}
	return out, nil
}

func (t *tx) TryAddItem(ctx context.Context, playerID, itemID string) (bool, error) {
	if err := t.check(playerID); err != nil {
		return false, err
	}
	tag, err := t.tx.Exec(ctx, SQLInsertItem, playerID, itemID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToInsertItem, mapTxErr(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (t *tx) GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error) {
	if err := t.check(playerID); err != nil {
		return domain.PityLedger{}, err
	}
	return getPity(ctx, t.tx, playerID, poolType)
}

func (t *tx) UpsertPity(ctx context.Context, ledger domain.PityLedger) error {
	if err := t.check(ledger.PlayerID); err != nil {
		return err
	}
	if ledger.PoolType == "" {
		return fmt.Errorf("pity ledger for %s has no pool type", ledger.PlayerID)
	}
	_, err := t.tx.Exec(ctx, SQLUpsertPity, ledger.PlayerID, ledger.PoolType, ledger.EpicPity, ledger.LegendaryPity, ledger.TotalPulls, ledger.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertPity, mapTxErr(err))
	}
	return nil
}

func (t *tx) GetFreeSpin(ctx context.Context, playerID string) (domain.FreeSpinState, error) {
	if err := t.check(playerID); err != nil {
		return domain.FreeSpinState{}, err
	}
	state := domain.FreeSpinState{PlayerID: playerID}
	err := t.tx.QueryRow(ctx, SQLSelectFreeSpin, playerID).Scan(&state.LastFreeSpinAt, &state.ConsecutiveDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FreeSpinState{PlayerID: playerID}, nil
		}
		return domain.FreeSpinState{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetFreeSpin, mapTxErr(err))
	}
	return state, nil
}

func (t *tx) UpsertFreeSpin(ctx context.Context, state domain.FreeSpinState) error {
	if err := t.check(state.PlayerID); err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, SQLUpsertFreeSpin, state.PlayerID, state.LastFreeSpinAt, state.ConsecutiveDays); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertFreeSpin, mapTxErr(err))
	}
	return nil
}

func (t *tx) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	return scanJackpot(t.tx.QueryRow(ctx, SQLSelectJackpot, wheelID), wheelID)
}

// ContributeJackpot's UPDATE holds the row lock until the transaction ends.
func (t *tx) ContributeJackpot(ctx context.Context, wheelID string, amount int64) (domain.JackpotPool, error) {
	if amount < 0 {
		return domain.JackpotPool{}, fmt.Errorf("%w: negative contribution %d", domain.ErrValidation, amount)
	}
	return scanJackpot(t.tx.QueryRow(ctx, SQLContributeJackpot, wheelID, amount), wheelID)
}

func (t *tx) ClaimJackpot(ctx context.Context, wheelID, winnerID string, now time.Time) (int64, domain.JackpotPool, error) {
	held, err := scanJackpot(t.tx.QueryRow(ctx, SQLSelectJackpotForUpdate, wheelID), wheelID)
	if err != nil {
		return 0, domain.JackpotPool{}, err
	}
	paid := held.CurrentAmount

	pool, err := scanJackpot(t.tx.QueryRow(ctx, SQLResetJackpot, wheelID, winnerID, paid, now), wheelID)
	if err != nil {
		return 0, domain.JackpotPool{}, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateJackpot, err)
	}
	return paid, pool, nil
}

func (t *tx) AppendPullRecord(ctx context.Context, r domain.PullRecord) error {
	if err := t.check(r.PlayerID); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, SQLInsertPullRecord, r.ID, r.PlayerID, r.PoolType, r.BannerID, r.ItemID,
		string(r.Rarity), r.WasFeatured, r.PullIndex, r.WasPityTriggered, r.AttemptID, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPullRecord, mapTxErr(err))
	}
	return nil
}

func (t *tx) GetAttempt(ctx context.Context, playerID, attemptID string) (*domain.Attempt, error) {
	if err := t.check(playerID); err != nil {
		return nil, err
	}
	a := domain.Attempt{PlayerID: playerID, AttemptID: attemptID}
	err := t.tx.QueryRow(ctx, SQLSelectAttempt, playerID, attemptID).Scan(&a.Operation, &a.Response, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAttempt, mapTxErr(err))
	}
	return &a, nil
}

func (t *tx) SaveAttempt(ctx context.Context, a domain.Attempt) error {
	if err := t.check(a.PlayerID); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, SQLInsertAttempt, a.PlayerID, a.AttemptID, a.Operation, a.Response, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, a.AttemptID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveAttempt, mapTxErr(err))
	}
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, mapTxErr(err))
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	return mapTxErr(t.tx.Rollback(ctx))
}

// mapTxErr translates pgx's closed-transaction error to the domain one so
// repository.SafeRollback can ignore it.
func mapTxErr(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return domain.ErrTxClosed
	}
	return err
}
