// Package memory is an in-process RewardStore used by the simulator, tests
// and single-node development runs.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/osse101/RewardEngine_Go/internal/concurrency"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/pity"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

type playerState struct {
	balances domain.Balances
	items    map[string]bool
	pity     map[string]domain.PityLedger // by pool type
	freeSpin domain.FreeSpinState
	attempts map[string]domain.Attempt
}

func newPlayerState(playerID string) *playerState {
	return &playerState{
		balances: make(domain.Balances),
		items:    make(map[string]bool),
		pity:     make(map[string]domain.PityLedger),
		freeSpin: domain.FreeSpinState{PlayerID: playerID},
		attempts: make(map[string]domain.Attempt),
	}
}

func (p *playerState) ledger(playerID, poolType string) domain.PityLedger {
	if l, ok := p.pity[poolType]; ok {
		return l
	}
	return pity.New(playerID, poolType)
}

func (p *playerState) clone() *playerState {
	cp := *p
	cp.balances = maps.Clone(p.balances)
	cp.items = maps.Clone(p.items)
	cp.pity = maps.Clone(p.pity)
	cp.attempts = maps.Clone(p.attempts)
	return &cp
}

// Store keeps all state in maps. Player and wheel locks come from
// LockManagers; mu only guards the maps themselves.
type Store struct {
	playerLocks  *concurrency.LockManager
	jackpotLocks *concurrency.LockManager

	mu       sync.RWMutex
	players  map[string]*playerState
	jackpots map[string]domain.JackpotPool
	records  map[string][]domain.PullRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		playerLocks:  concurrency.NewLockManager(),
		jackpotLocks: concurrency.NewLockManager(),
		players:      make(map[string]*playerState),
		jackpots:     make(map[string]domain.JackpotPool),
		records:      make(map[string][]domain.PullRecord),
	}
}

var _ repository.RewardStore = (*Store)(nil)

// BeginPlayerTx locks the player and snapshots their state.
func (s *Store) BeginPlayerTx(ctx context.Context, playerID string) (repository.RewardTx, error) {
	release, err := s.playerLocks.Acquire(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player %s: %w", playerID, err)
	}

	s.mu.RLock()
	state, ok := s.players[playerID]
	if ok {
		state = state.clone()
	}
	s.mu.RUnlock()
	if !ok {
		state = newPlayerState(playerID)
	}

	return &tx{
		store:    s,
		playerID: playerID,
		release:  release,
		state:    state,
		jackpots: make(map[string]*heldJackpot),
	}, nil
}

// GetPity returns the player's ledger for poolType without locking the
// player.
func (s *Store) GetPity(_ context.Context, playerID, poolType string) (domain.PityLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[playerID]; ok {
		return p.ledger(playerID, poolType), nil
	}
	return pity.New(playerID, poolType), nil
}

// GetJackpot returns the committed escrow of a wheel.
func (s *Store) GetJackpot(_ context.Context, wheelID string) (domain.JackpotPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool, ok := s.jackpots[wheelID]
	if !ok {
		return domain.JackpotPool{}, fmt.Errorf("%w: %s", domain.ErrWheelNotFound, wheelID)
	}
	return pool, nil
}

// ListPullRecords returns the newest records first.
func (s *Store) ListPullRecords(_ context.Context, playerID string, limit int) ([]domain.PullRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[playerID]
	out := make([]domain.PullRecord, 0, min(limit, len(recs)))
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

// EnsureJackpot seeds a wheel's escrow at its base amount.
func (s *Store) EnsureJackpot(_ context.Context, wheelID string, baseAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jackpots[wheelID]; !ok {
		s.jackpots[wheelID] = domain.JackpotPool{
			WheelID:       wheelID,
			CurrentAmount: baseAmount,
			BaseAmount:    baseAmount,
		}
	}
	return nil
}

// SeedBalances credits starting balances to a player in one transaction.
func (s *Store) SeedBalances(ctx context.Context, playerID string, balances domain.Balances) error {
	t, err := s.BeginPlayerTx(ctx, playerID)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, t)

	for currency, amount := range balances {
		if err := t.Credit(ctx, playerID, currency, amount); err != nil {
			return err
		}
	}
	return t.Commit(ctx)
}

// Inventory returns the item ids a player owns, sorted.
func (s *Store) Inventory(playerID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(p.items))
	for id := range p.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetJackpotAmount overwrites a wheel's current amount. Used by tooling
// and tests to stage escrow states.
func (s *Store) SetJackpotAmount(wheelID string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := s.jackpots[wheelID]
	pool.WheelID = wheelID
	pool.CurrentAmount = amount
	s.jackpots[wheelID] = pool
}

// RecordCount returns how many records a player has.
func (s *Store) RecordCount(playerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[playerID])
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[t.playerID] = t.state
	for wheelID, held := range t.jackpots {
		s.jackpots[wheelID] = held.pool
	}
	if len(t.records) > 0 {
		s.records[t.playerID] = append(s.records[t.playerID], t.records...)
	}
}
