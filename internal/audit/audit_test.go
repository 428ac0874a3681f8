package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build(catalog.File{
		Version:      "test",
		MaxMultiPull: 10,
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
		}},
	})
	require.NoError(t, err)
	return cat
}

func TestSummarize(t *testing.T) {
	d := Summarize([]int{10, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	assert.Equal(t, 10, d.Samples)
	assert.InDelta(t, 5.5, d.Mean, 1e-9)
	assert.Equal(t, 5, d.P50)
	assert.Equal(t, 9, d.P90)
	assert.Equal(t, 10, d.P99)
	assert.Equal(t, 10, d.Max)

	assert.Equal(t, Distribution{}, Summarize(nil))
}

func TestCollector_PullsToTierPerPlayer(t *testing.T) {
	c := NewCollector(domain.PityRules{EpicFloor: domain.RarityEpic, LegendaryFloor: domain.RarityLegendary})
	common := domain.DrawOutcome{Rarity: domain.RarityCommon}

	c.Observe("a", common)
	c.Observe("b", common)
	c.Observe("a", common)
	c.Observe("a", domain.DrawOutcome{Rarity: domain.RarityEpic, WasPityTriggered: true})
	c.Observe("b", domain.DrawOutcome{Rarity: domain.RarityLegendary, Grant: domain.Grant{Kind: domain.GrantCompensation}})

	assert.Equal(t, []int{3, 2}, c.toEpic, "legendary also satisfies the epic floor")
	assert.Equal(t, []int{2}, c.toLegendary)

	var table domain.RarityTable
	table = table.With(domain.RarityCommon, 700_000).With(domain.RarityEpic, 250_000).With(domain.RarityLegendary, 50_000)
	r := c.Report("standard", 2, table)

	assert.Equal(t, 5, r.Pulls)
	assert.Equal(t, 1, r.PityTriggered)
	assert.Equal(t, 1, r.Duplicates)
	require.Len(t, r.Tiers, 3)
	assert.Equal(t, TierStats{Rarity: domain.RarityCommon, Advertised: "70", Observed: "60", Count: 3}, r.Tiers[0])
	assert.Equal(t, "20", r.Tiers[2].Observed)
}

func TestRun_HardPityBoundsEveryPlayer(t *testing.T) {
	cat := testCatalog(t)

	report, err := Run(context.Background(), cat, Options{
		PoolType:       "standard",
		Players:        20,
		PullsPerPlayer: 200,
		BatchSize:      10,
		Seed:           42,
	})
	require.NoError(t, err)

	assert.Equal(t, 4000, report.Pulls)
	assert.LessOrEqual(t, report.ToEpic.Max, 10)
	assert.LessOrEqual(t, report.ToLegendary.Max, 90)
	assert.Positive(t, report.ToLegendary.Samples)

	var counted int
	for _, tier := range report.Tiers {
		counted += tier.Count
	}
	assert.Equal(t, report.Pulls, counted)
}

func TestRun_SeedIsReproducible(t *testing.T) {
	cat := testCatalog(t)
	opts := Options{PoolType: "standard", Players: 3, PullsPerPlayer: 50, BatchSize: 1, Seed: 7}

	first, err := Run(context.Background(), cat, opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), cat, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOptions_Validate(t *testing.T) {
	cat := testCatalog(t)

	assert.Error(t, Options{PoolType: "nope", Players: 1, PullsPerPlayer: 1, BatchSize: 1}.Validate(cat))
	assert.Error(t, Options{PoolType: "standard", Players: 0, PullsPerPlayer: 1, BatchSize: 1}.Validate(cat))
	assert.Error(t, Options{PoolType: "standard", Players: 1, PullsPerPlayer: 1, BatchSize: 11}.Validate(cat))
	assert.NoError(t, Options{PoolType: "standard", Players: 1, PullsPerPlayer: 1, BatchSize: 10}.Validate(cat))
}
