package gacha

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/database/memory"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
)

var testNow = time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build(catalog.File{
		Version:           "test",
		MaxMultiPull:      10,
		DisclosureRegions: []string{"KR"},
		DuplicateCompensation: map[string]int64{
			"common": 5, "rare": 25, "epic": 120, "legendary": 600,
		},
		GachaPools: []catalog.GachaPoolDef{{
			Type:              "standard",
			Cost:              catalog.CostDef{Currency: "gems", Amount: 160},
			MultiPullDiscount: "0.1",
			DiscountMinCount:  10,
			Rates:             map[string]string{"common": "70", "rare": "25", "epic": "4.5", "legendary": "0.5"},
			Pity: catalog.PityDef{
				EpicFloor:          "epic",
				LegendaryFloor:     "legendary",
				HardEpic:           10,
				HardLegendary:      90,
				SoftEpicStart:      6,
				SoftLegendaryStart: 73,
				SoftEpicStep:       "5",
				SoftLegendaryStep:  "6",
			},
			Items: []catalog.ItemDef{
				{ID: "c1", Type: "cosmetic", Rarity: "common"},
				{ID: "r1", Type: "cosmetic", Rarity: "rare"},
				{ID: "e1", Type: "hero", Rarity: "epic"},
				{ID: "l1", Type: "hero", Rarity: "legendary"},
			},
			Banners: []catalog.BannerDef{
				{
					ID:              "spring",
					StartsAt:        testNow.Add(-24 * time.Hour),
					EndsAt:          testNow.Add(24 * time.Hour),
					FeaturedItemIDs: []string{"l1"},
					RateUpShare:     "50",
				},
				{
					ID:              "winter",
					StartsAt:        testNow.Add(30 * 24 * time.Hour),
					EndsAt:          testNow.Add(60 * 24 * time.Hour),
					FeaturedItemIDs: []string{"e1"},
					RateUpShare:     "50",
				},
			},
		}, {
			Type:  "cheap",
			Cost:  catalog.CostDef{Currency: "gems", Amount: 10},
			Rates: map[string]string{"common": "90", "epic": "10"},
			Pity:  catalog.PityDef{EpicFloor: "epic", HardEpic: 10},
			Items: []catalog.ItemDef{
				{ID: "cheap_c", Type: "cosmetic", Rarity: "common"},
				{ID: "cheap_e", Type: "cosmetic", Rarity: "epic"},
			},
		}},
	})
	require.NoError(t, err)
	return cat
}

type fixture struct {
	svc   *service
	store *memory.Store
	bus   *event.MemoryBus
}

func newFixture(t *testing.T, replay *cache.ReplayCache, rolls ...int) *fixture {
	t.Helper()
	cat := testCatalog(t)
	store := memory.NewStore()
	bus := event.NewMemoryBus()
	executor := draw.NewExecutor(sampler.New(sampler.NewSequenceSource(rolls...)), grant.NewResolver(cat.Compensation))

	svc := NewService(store, cat, executor, draw.NewAttempts(replay), bus).(*service)
	svc.now = func() time.Time { return testNow }
	return &fixture{svc: svc, store: store, bus: bus}
}

func (f *fixture) seed(t *testing.T, playerID string, gems int64) {
	t.Helper()
	require.NoError(t, f.store.SeedBalances(context.Background(), playerID, domain.Balances{domain.CurrencyGems: gems}))
}

func (f *fixture) setPity(t *testing.T, ledger domain.PityLedger) {
	t.Helper()
	ctx := context.Background()
	if ledger.PoolType == "" {
		ledger.PoolType = "standard"
	}
	tx, err := f.store.BeginPlayerTx(ctx, ledger.PlayerID)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertPity(ctx, ledger))
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) balances(t *testing.T, playerID string) domain.Balances {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginPlayerTx(ctx, playerID)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	b, err := tx.Balances(ctx, playerID)
	require.NoError(t, err)
	return b
}
