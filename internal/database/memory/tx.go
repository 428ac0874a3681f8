package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

type heldJackpot struct {
	release func()
	pool    domain.JackpotPool
}

// tx mutates a private copy of one player's state and publishes it on
// Commit. Wheel locks are taken lazily and always after the player lock.
type tx struct {
	store    *Store
	playerID string
	release  func()
	state    *playerState
	jackpots map[string]*heldJackpot
	records  []domain.PullRecord
	closed   bool
}

func (t *tx) check(playerID string) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	if playerID != t.playerID {
		return fmt.Errorf("transaction for %s cannot touch player %s", t.playerID, playerID)
	}
	return nil
}

func (t *tx) Spend(_ context.Context, playerID string, currency domain.Currency, amount int64) error {
	if err := t.check(playerID); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative spend %d", domain.ErrValidation, amount)
	}
	have := t.state.balances[currency]
	if have < amount {
		return &domain.InsufficientFundsError{Currency: currency, Need: amount, Have: have}
	}
	t.state.balances[currency] = have - amount
	return nil
}

func (t *tx) Credit(_ context.Context, playerID string, currency domain.Currency, amount int64) error {
	if err := t.check(playerID); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative credit %d", domain.ErrValidation, amount)
	}
	t.state.balances[currency] += amount
	return nil
}

func (t *tx) Balances(_ context.Context, playerID string) (domain.Balances, error) {
	if err := t.check(playerID); err != nil {
		return nil, err
	}
	out := make(domain.Balances, len(t.state.balances))
	for c, v := range t.state.balances {
		out[c] = v
	}
	return out, nil
}

func (t *tx) TryAddItem(_ context.Context, playerID, itemID string) (bool, error) {
	if err := t.check(playerID); err != nil {
		return false, err
	}
	if t.state.items[itemID] {
		return false, nil
	}
	t.state.items[itemID] = true
	return true, nil
}

func (t *tx) GetPity(_ context.Context, playerID, poolType string) (domain.PityLedger, error) {
	if err := t.check(playerID); err != nil {
		return domain.PityLedger{}, err
	}
	return t.state.ledger(playerID, poolType), nil
}

func (t *tx) UpsertPity(_ context.Context, ledger domain.PityLedger) error {
	if err := t.check(ledger.PlayerID); err != nil {
		return err
	}
	if ledger.PoolType == "" {
		return fmt.Errorf("pity ledger for %s has no pool type", ledger.PlayerID)
	}
	t.state.pity[ledger.PoolType] = ledger
	return nil
}

func (t *tx) GetFreeSpin(_ context.Context, playerID string) (domain.FreeSpinState, error) {
	if err := t.check(playerID); err != nil {
		return domain.FreeSpinState{}, err
	}
	return t.state.freeSpin, nil
}

func (t *tx) UpsertFreeSpin(_ context.Context, state domain.FreeSpinState) error {
	if err := t.check(state.PlayerID); err != nil {
		return err
	}
	t.state.freeSpin = state
	return nil
}

// lockJackpot takes the wheel's exclusive lock for the rest of the tx.
func (t *tx) lockJackpot(ctx context.Context, wheelID string) (*heldJackpot, error) {
	if t.closed {
		return nil, domain.ErrTxClosed
	}
	if held, ok := t.jackpots[wheelID]; ok {
		return held, nil
	}

	release, err := t.store.jackpotLocks.Acquire(ctx, wheelID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock jackpot %s: %w", wheelID, err)
	}

	pool, err := t.store.GetJackpot(ctx, wheelID)
	if err != nil {
		release()
		return nil, err
	}

	held := &heldJackpot{release: release, pool: pool}
	t.jackpots[wheelID] = held
	return held, nil
}

func (t *tx) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	if held, ok := t.jackpots[wheelID]; ok {
		return held.pool, nil
	}
	return t.store.GetJackpot(ctx, wheelID)
}

func (t *tx) ContributeJackpot(ctx context.Context, wheelID string, amount int64) (domain.JackpotPool, error) {
	held, err := t.lockJackpot(ctx, wheelID)
	if err != nil {
		return domain.JackpotPool{}, err
	}
	held.pool.CurrentAmount += amount
	return held.pool, nil
}

func (t *tx) ClaimJackpot(ctx context.Context, wheelID, winnerID string, now time.Time) (int64, domain.JackpotPool, error) {
	held, err := t.lockJackpot(ctx, wheelID)
	if err != nil {
		return 0, domain.JackpotPool{}, err
	}
	paid := held.pool.CurrentAmount
	winTime := now
	held.pool.LastWinnerID = winnerID
	held.pool.LastWinAmount = paid
	held.pool.LastWinTime = &winTime
	held.pool.CurrentAmount = held.pool.BaseAmount
	return paid, held.pool, nil
}

func (t *tx) AppendPullRecord(_ context.Context, record domain.PullRecord) error {
	if err := t.check(record.PlayerID); err != nil {
		return err
	}
	t.records = append(t.records, record)
	return nil
}

func (t *tx) GetAttempt(_ context.Context, playerID, attemptID string) (*domain.Attempt, error) {
	if err := t.check(playerID); err != nil {
		return nil, err
	}
	a, ok := t.state.attempts[attemptID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (t *tx) SaveAttempt(_ context.Context, attempt domain.Attempt) error {
	if err := t.check(attempt.PlayerID); err != nil {
		return err
	}
	if _, ok := t.state.attempts[attempt.AttemptID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, attempt.AttemptID)
	}
	t.state.attempts[attempt.AttemptID] = attempt
	return nil
}

func (t *tx) Commit(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.store.commit(t)
	t.finish()
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.finish()
	return nil
}

func (t *tx) finish() {
	t.closed = true
	for _, held := range t.jackpots {
		held.release()
	}
	t.release()
}
