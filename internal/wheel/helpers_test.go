package wheel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/database/memory"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
)

var day0 = time.Date(2026, 10, 1, 18, 30, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build(catalog.File{
		Version:               "test",
		MaxMultiPull:          10,
		DuplicateCompensation: map[string]int64{"common": 5, "rare": 25, "epic": 120},
		Wheels: []catalog.WheelDef{{
			ID:                  "fortune",
			SpinCost:            catalog.CostDef{Currency: "gems", Amount: 50},
			JackpotContribution: 25,
			JackpotBase:         10_000,
			CooldownDays:        1,
			StreakStep:          "0.1",
			MaxMultiplier:       "1.5",
			Rates:               map[string]string{"common": "60", "rare": "30", "epic": "9.9", "jackpot": "0.1"},
			Items: []catalog.ItemDef{
				{ID: "coins_100", Type: "currency", Rarity: "common", Currency: "coins", Amount: 100},
				{ID: "emote", Type: "cosmetic", Rarity: "rare"},
				{ID: "gems_50", Type: "currency", Rarity: "epic", Currency: "gems", Amount: 50},
				{ID: "jackpot", Type: "jackpot", Rarity: "jackpot"},
			},
		}},
	})
	require.NoError(t, err)
	return cat
}

type fixture struct {
	svc   *service
	cat   *catalog.Catalog
	store *memory.Store
	bus   *event.MemoryBus
	clock time.Time
}

func newFixture(t *testing.T, rolls ...int) *fixture {
	t.Helper()
	cat := testCatalog(t)
	store := memory.NewStore()
	bus := event.NewMemoryBus()
	executor := draw.NewExecutor(sampler.New(sampler.NewSequenceSource(rolls...)), grant.NewResolver(cat.Compensation))

	f := &fixture{cat: cat, store: store, bus: bus, clock: day0}
	f.svc = NewService(store, cat, executor, draw.NewAttempts(nil), nil, bus).(*service)
	f.svc.now = func() time.Time { return f.clock }
	require.NoError(t, f.svc.EnsureJackpots(context.Background()))
	return f
}

func (f *fixture) seed(t *testing.T, playerID string, gems int64) {
	t.Helper()
	require.NoError(t, f.store.SeedBalances(context.Background(), playerID, domain.Balances{domain.CurrencyGems: gems}))
}

func (f *fixture) jackpot(t *testing.T) domain.JackpotPool {
	t.Helper()
	pool, err := f.store.GetJackpot(context.Background(), "fortune")
	require.NoError(t, err)
	return pool
}
