package draw

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/database/memory"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
)

var testNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

func newExecutor(rolls ...int) *Executor {
	e := NewExecutor(
		sampler.New(sampler.NewSequenceSource(rolls...)),
		grant.NewResolver(grant.Compensation{
			domain.RarityCommon:    5,
			domain.RarityRare:      20,
			domain.RarityEpic:      100,
			domain.RarityLegendary: 500,
			domain.RarityJackpot:   500,
		}),
	)
	e.newID = func() string { return "rec-1" }
	return e
}

func gachaRequest(t *testing.T) Request {
	t.Helper()
	base, err := rarity.ParseTable(map[domain.Rarity]string{
		domain.RarityCommon:    "70",
		domain.RarityRare:      "25",
		domain.RarityEpic:      "4.5",
		domain.RarityLegendary: "0.5",
	})
	require.NoError(t, err)
	return Request{
		PlayerID: "p1",
		Pool: domain.NewRewardPool("standard", domain.PoolKindGacha, []domain.Item{
			{ID: "c1", Type: domain.ItemTypeCosmetic, Rarity: domain.RarityCommon},
			{ID: "r1", Type: domain.ItemTypeCosmetic, Rarity: domain.RarityRare},
			{ID: "e1", Type: domain.ItemTypeHero, Rarity: domain.RarityEpic},
			{ID: "l1", Type: domain.ItemTypeHero, Rarity: domain.RarityLegendary},
		}),
		Base: base,
		Rules: domain.PityRules{
			EpicFloor:      domain.RarityEpic,
			LegendaryFloor: domain.RarityLegendary,
			HardEpic:       10,
			HardLegendary:  90,
		},
		AttemptID: "a-1",
		Now:       testNow,
	}
}

func beginTx(t *testing.T, s *memory.Store) repository.RewardTx {
	t.Helper()
	tx, err := s.BeginPlayerTx(context.Background(), "p1")
	require.NoError(t, err)
	t.Cleanup(func() { repository.SafeRollback(context.Background(), tx) })
	return tx
}

func TestExecute_CommonDrawAdvancesCounters(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	tx := beginTx(t, s)

	res, err := newExecutor(0, 0).Execute(ctx, tx, domain.PityLedger{PlayerID: "p1"}, gachaRequest(t))

	require.NoError(t, err)
	assert.Equal(t, domain.RarityCommon, res.Outcome.Rarity)
	assert.Equal(t, 1, res.Ledger.EpicPity)
	assert.Equal(t, 1, res.Ledger.LegendaryPity)
	assert.Equal(t, 1, res.Ledger.TotalPulls)
	assert.False(t, res.Outcome.WasPityTriggered)
	assert.Equal(t, domain.GrantInventory, res.Outcome.Grant.Kind)

	require.NoError(t, tx.Commit(ctx))
	records, err := s.ListPullRecords(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, "a-1", records[0].AttemptID)
	assert.Equal(t, "c1", records[0].ItemID)
}

func TestExecute_HardPityForcesEpic(t *testing.T) {
	tx := beginTx(t, memory.NewStore())

	// roll 0 would be common on the base table
	res, err := newExecutor(0, 0).Execute(context.Background(), tx, domain.PityLedger{PlayerID: "p1", EpicPity: 9}, gachaRequest(t))

	require.NoError(t, err)
	assert.True(t, res.Outcome.Rarity.AtLeast(domain.RarityEpic))
	assert.True(t, res.Outcome.WasPityTriggered)
	assert.Zero(t, res.Ledger.EpicPity)
}

func TestExecute_NoRulesLeavesLedgerAlone(t *testing.T) {
	tx := beginTx(t, memory.NewStore())
	req := gachaRequest(t)
	req.Rules = domain.PityRules{}
	ledger := domain.PityLedger{PlayerID: "p1", EpicPity: 3}

	res, err := newExecutor(0, 0).Execute(context.Background(), tx, ledger, req)

	require.NoError(t, err)
	assert.Equal(t, ledger, res.Ledger)
}

func TestExecute_JackpotClaimsWheelEscrow(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.EnsureJackpot(ctx, "lucky", 10_000))
	s.SetJackpotAmount("lucky", 14_350)
	tx := beginTx(t, s)

	var table domain.RarityTable
	req := Request{
		PlayerID: "p1",
		Pool: domain.NewRewardPool("lucky", domain.PoolKindWheel, []domain.Item{
			{ID: "jackpot", Type: domain.ItemTypeJackpot, Rarity: domain.RarityJackpot},
		}),
		Base:    table.With(domain.RarityJackpot, domain.TotalUnits),
		WheelID: "lucky",
		Now:     testNow,
	}

	res, err := newExecutor(0, 0).Execute(ctx, tx, domain.PityLedger{PlayerID: "p1"}, req)

	require.NoError(t, err)
	require.NotNil(t, res.Jackpot)
	assert.Equal(t, int64(14_350), res.Outcome.Grant.Amount)
	assert.Equal(t, domain.GrantJackpot, res.Outcome.Grant.Kind)
	assert.Equal(t, int64(10_000), res.Jackpot.CurrentAmount)

	req.WheelID = ""
	_, err = newExecutor(0, 0).Execute(ctx, tx, domain.PityLedger{PlayerID: "p1"}, req)
	assert.ErrorIs(t, err, domain.ErrInternalConsistency)
}
