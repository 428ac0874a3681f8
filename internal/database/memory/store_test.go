package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

func TestTx_RollbackDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SeedBalances(ctx, "p1", domain.Balances{domain.CurrencyGems: 500}))

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, tx.Spend(ctx, "p1", domain.CurrencyGems, 160))
	_, err = tx.TryAddItem(ctx, "p1", "hero_1")
	require.NoError(t, err)
	require.NoError(t, tx.AppendPullRecord(ctx, domain.PullRecord{PlayerID: "p1", ItemID: "hero_1"}))
	require.NoError(t, tx.Rollback(ctx))

	tx, err = s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	balances, err := tx.Balances(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balances[domain.CurrencyGems])
	assert.Empty(t, s.Inventory("p1"))
	assert.Zero(t, s.RecordCount("p1"))
}

func TestTx_PityIsKeyedByPool(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, tx.UpsertPity(ctx, domain.PityLedger{PlayerID: "p1", PoolType: "cheap", EpicPity: 7, TotalPulls: 7}))
	assert.Error(t, tx.UpsertPity(ctx, domain.PityLedger{PlayerID: "p1", EpicPity: 1}))
	require.NoError(t, tx.Commit(ctx))

	cheap, err := s.GetPity(ctx, "p1", "cheap")
	require.NoError(t, err)
	assert.Equal(t, 7, cheap.EpicPity)

	premium, err := s.GetPity(ctx, "p1", "premium")
	require.NoError(t, err)
	assert.Equal(t, domain.PityLedger{PlayerID: "p1", PoolType: "premium"}, premium)
}

func TestTx_SpendInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	err = tx.Spend(ctx, "p1", domain.CurrencyGems, 1)

	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, int64(0), funds.Have)
}

func TestTx_TryAddItemRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	added, err := tx.TryAddItem(ctx, "p1", "skin_1")
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, tx.Commit(ctx))

	tx, err = s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	added, err = tx.TryAddItem(ctx, "p1", "skin_1")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestTx_ScopedToPlayer(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	assert.Error(t, tx.Credit(ctx, "p2", domain.CurrencyCoins, 10))
}

func TestTx_ClosedAfterCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Rollback(ctx), domain.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrTxClosed)
}

func TestJackpot_ClaimResetsToBase(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.EnsureJackpot(ctx, "daily", 10_000))
	s.SetJackpotAmount("daily", 14_350)

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	now := time.Now()
	paid, pool, err := tx.ClaimJackpot(ctx, "daily", "p1", now)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, int64(14_350), paid)
	assert.Equal(t, int64(10_000), pool.CurrentAmount)

	committed, err := s.GetJackpot(ctx, "daily")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), committed.CurrentAmount)
	assert.Equal(t, "p1", committed.LastWinnerID)
	assert.Equal(t, int64(14_350), committed.LastWinAmount)
}

func TestJackpot_ConcurrentClaimsPayOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.EnsureJackpot(ctx, "daily", 10_000))
	s.SetJackpotAmount("daily", 50_000)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(player string) {
			defer wg.Done()
			tx, err := s.BeginPlayerTx(ctx, player)
			if !assert.NoError(t, err) {
				return
			}
			paid, _, err := tx.ClaimJackpot(ctx, "daily", player, time.Now())
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, tx.Commit(ctx))
			mu.Lock()
			total += paid
			mu.Unlock()
		}(string(rune('a' + i)))
	}
	wg.Wait()

	// one claim of 50,000 then seven of the base amount
	assert.Equal(t, int64(50_000+7*10_000), total)
}

func TestListPullRecords_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginPlayerTx(ctx, "p1")
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		require.NoError(t, tx.AppendPullRecord(ctx, domain.PullRecord{PlayerID: "p1", PullIndex: i}))
	}
	require.NoError(t, tx.Commit(ctx))

	recs, err := s.ListPullRecords(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 3, recs[0].PullIndex)
	assert.Equal(t, 2, recs[1].PullIndex)
}
