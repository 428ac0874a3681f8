package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/validation"
)

func TestLoad_DefaultYAMLCatalog(t *testing.T) {
	c, err := NewLoader(nil).Load(context.Background(), "../../configs/rewards.yaml")
	require.NoError(t, err)

	standard, ok := c.Pool("standard")
	require.True(t, ok)
	assert.Equal(t, int64(700_000), standard.Base.Weight(domain.RarityCommon))
	assert.Equal(t, int64(5_000), standard.Base.Weight(domain.RarityLegendary))
	assert.Equal(t, 10, standard.Rules.HardEpic)
	assert.Equal(t, int64(50_000), standard.Rules.SoftEpicStep)
	assert.Equal(t, domain.Cost{Currency: domain.CurrencyGems, Amount: 160}, standard.Cost)
	assert.True(t, decimal.RequireFromString("0.1").Equal(standard.MultiPullDiscount))

	banner, ok := standard.Banner("autumn_warlord")
	require.True(t, ok)
	assert.Equal(t, 5000, banner.RateUpShare)

	wheel, ok := c.Wheel("fortune")
	require.True(t, ok)
	assert.Zero(t, wheel.FreeBase.Weight(domain.RarityJackpot))
	assert.Equal(t, domain.TotalUnits, wheel.FreeBase.Total())
	assert.Equal(t, int64(10_000), wheel.JackpotBase)

	assert.Equal(t, []string{"premium", "standard"}, c.PoolTypes())
	assert.True(t, c.DisclosureRegions["KR"])
}

func TestLoad_JSONCatalogValidatedAgainstSchema(t *testing.T) {
	loader := NewLoader(validation.NewSchemaValidator())

	c, err := loader.Load(context.Background(), "testdata/minimal.json")
	require.NoError(t, err)
	assert.True(t, c.DisclosureRegions["CN"], "regions are canonicalized")
	assert.Equal(t, int64(600), c.Compensation[domain.RarityLegendary])

	_, err = loader.Load(context.Background(), "testdata/schema_violation.json")
	assert.ErrorContains(t, err, "schema validation failed")
}

func TestLoad_RejectsTableNotSummingTo100(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "testdata/bad_sum.yaml")

	assert.ErrorIs(t, err, domain.ErrInternalConsistency)
}

func TestLoad_RejectsDecreasingCompensation(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "testdata/bad_compensation.yaml")

	assert.ErrorContains(t, err, "duplicate compensation for rare")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "testdata/bad_sum.yaml.txt")
	assert.Error(t, err)
}

func validFile() File {
	return File{
		Version:               "t",
		MaxMultiPull:          10,
		DuplicateCompensation: map[string]int64{"common": 5, "epic": 50},
		GachaPools: []GachaPoolDef{{
			Type:  "standard",
			Cost:  CostDef{Currency: "gems", Amount: 100},
			Rates: map[string]string{"common": "90", "epic": "10"},
			Items: []ItemDef{
				{ID: "c1", Type: "cosmetic", Rarity: "common"},
				{ID: "e1", Type: "hero", Rarity: "epic"},
			},
		}},
	}
}

func TestDecode_DisabledItemsAreNotDrawable(t *testing.T) {
	f := validFile()
	f.GachaPools[0].Items = append(f.GachaPools[0].Items, ItemDef{ID: "c2", Type: "cosmetic", Rarity: "common", Disabled: true})

	c, err := NewLoader(nil).Decode(f)
	require.NoError(t, err)

	pool, ok := c.Pool("standard")
	require.True(t, ok)
	commons := pool.Pool.ItemsOfTier(domain.RarityCommon)
	require.Len(t, commons, 1)
	assert.Equal(t, "c1", commons[0].ID)

	_, ok = pool.Pool.Item("c2")
	assert.True(t, ok)
}

func TestDecode_SemanticChecks(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.Decode(validFile())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(f *File)
	}{
		{"unknown rarity in item", func(f *File) { f.GachaPools[0].Items[0].Rarity = "mythic" }},
		{"duplicate item", func(f *File) {
			f.GachaPools[0].Items = append(f.GachaPools[0].Items, ItemDef{ID: "c1", Type: "cosmetic", Rarity: "common"})
		}},
		{"jackpot in gacha", func(f *File) {
			f.GachaPools[0].Rates = map[string]string{"common": "90", "jackpot": "10"}
		}},
		{"currency item without amount", func(f *File) {
			f.GachaPools[0].Items[0] = ItemDef{ID: "c1", Type: "currency", Rarity: "common", Currency: "coins"}
		}},
		{"soft start past hard threshold", func(f *File) {
			f.GachaPools[0].Pity = PityDef{EpicFloor: "epic", HardEpic: 10, SoftEpicStart: 10}
		}},
		{"featured item outside pool", func(f *File) {
			f.GachaPools[0].Banners = []BannerDef{{
				ID:              "b",
				StartsAt:        testTime(0),
				EndsAt:          testTime(24),
				FeaturedItemIDs: []string{"ghost"},
				RateUpShare:     "50",
			}}
		}},
		{"missing compensation for drawn tier", func(f *File) {
			f.DuplicateCompensation = map[string]int64{"common": 5}
		}},
		{"bad region", func(f *File) { f.DisclosureRegions = []string{"ZZZZ"} }},
		{"soft epic step without hard threshold", func(f *File) {
			f.GachaPools[0].Pity = PityDef{EpicFloor: "epic", SoftEpicStart: 5, SoftEpicStep: "5"}
		}},
		{"soft legendary step without hard threshold", func(f *File) {
			f.GachaPools[0].Pity = PityDef{LegendaryFloor: "legendary", SoftLegendaryStep: "6"}
		}},
		{"weighted tier with every item disabled", func(f *File) { f.GachaPools[0].Items[1].Disabled = true }},
		{"weighted tier without items", func(f *File) { f.GachaPools[0].Items = f.GachaPools[0].Items[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFile()
			tt.mutate(&f)
			_, err := loader.Decode(f)
			assert.Error(t, err)
		})
	}
}

func validWheelFile() File {
	return File{
		Version:               "t",
		MaxMultiPull:          10,
		DuplicateCompensation: map[string]int64{"common": 5, "epic": 50},
		Wheels: []WheelDef{{
			ID:            "fortune",
			SpinCost:      CostDef{Currency: "gems", Amount: 50},
			JackpotBase:   1_000,
			CooldownDays:  1,
			StreakStep:    "0.1",
			MaxMultiplier: "1.5",
			Rates:         map[string]string{"common": "90", "epic": "9.9", "jackpot": "0.1"},
			Items: []ItemDef{
				{ID: "coins", Type: "currency", Rarity: "common", Currency: "coins", Amount: 100},
				{ID: "gems", Type: "currency", Rarity: "epic", Currency: "gems", Amount: 50},
				{ID: "jackpot", Type: "jackpot", Rarity: "jackpot"},
			},
		}},
	}
}

func TestDecode_WheelTierCoverage(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.Decode(validWheelFile())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(f *File)
		wantMsg string
	}{
		{"epic item disabled", func(f *File) { f.Wheels[0].Items[1].Disabled = true }, ErrMsgTierWithoutItems + ": epic"},
		{"jackpot item disabled", func(f *File) { f.Wheels[0].Items[2].Disabled = true }, ErrMsgTierWithoutItems + ": jackpot"},
		{"jackpot item missing", func(f *File) { f.Wheels[0].Items = f.Wheels[0].Items[:2] }, ErrMsgJackpotItemMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validWheelFile()
			tt.mutate(&f)
			_, err := loader.Decode(f)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}
