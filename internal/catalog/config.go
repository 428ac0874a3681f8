package catalog

import "time"

// File is the on-disk shape of the reward catalog. YAML and JSON catalogs
// decode into the same struct.
type File struct {
	Version               string           `yaml:"version" json:"version" validate:"required"`
	MaxMultiPull          int              `yaml:"max_multi_pull" json:"max_multi_pull" validate:"required,min=1,max=100"`
	DisclosureRegions     []string         `yaml:"disclosure_regions" json:"disclosure_regions" validate:"dive,required"`
	DuplicateCompensation map[string]int64 `yaml:"duplicate_compensation" json:"duplicate_compensation" validate:"required,min=1,dive,keys,oneof=common uncommon rare epic legendary jackpot,endkeys,gt=0"`
	GachaPools            []GachaPoolDef   `yaml:"gacha_pools" json:"gacha_pools" validate:"dive"`
	Wheels                []WheelDef       `yaml:"wheels" json:"wheels" validate:"dive"`
}

// CostDef is a price in one currency.
type CostDef struct {
	Currency string `yaml:"currency" json:"currency" validate:"required,oneof=coins gems"`
	Amount   int64  `yaml:"amount" json:"amount" validate:"gt=0"`
}

// ItemDef is one catalog item.
type ItemDef struct {
	ID       string `yaml:"id" json:"id" validate:"required"`
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type" validate:"required,oneof=currency cosmetic hero jackpot"`
	Rarity   string `yaml:"rarity" json:"rarity" validate:"required,oneof=common uncommon rare epic legendary jackpot"`
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty" validate:"omitempty,oneof=coins gems"`
	Amount   int64  `yaml:"amount,omitempty" json:"amount,omitempty" validate:"gte=0"`
	// Disabled items stay in the catalog but are never drawn.
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// PityDef configures pity for a gacha pool. Steps are percent strings.
type PityDef struct {
	EpicFloor          string `yaml:"epic_floor" json:"epic_floor" validate:"omitempty,oneof=common uncommon rare epic legendary jackpot"`
	LegendaryFloor     string `yaml:"legendary_floor" json:"legendary_floor" validate:"omitempty,oneof=common uncommon rare epic legendary jackpot"`
	HardEpic           int    `yaml:"hard_epic" json:"hard_epic" validate:"gte=0"`
	HardLegendary      int    `yaml:"hard_legendary" json:"hard_legendary" validate:"gte=0"`
	SoftEpicStart      int    `yaml:"soft_epic_start" json:"soft_epic_start" validate:"gte=0"`
	SoftLegendaryStart int    `yaml:"soft_legendary_start" json:"soft_legendary_start" validate:"gte=0"`
	SoftEpicStep       string `yaml:"soft_epic_step" json:"soft_epic_step"`
	SoftLegendaryStep  string `yaml:"soft_legendary_step" json:"soft_legendary_step"`
}

// BannerDef is a rate-up overlay. RateUpShare is a percent string.
type BannerDef struct {
	ID              string    `yaml:"id" json:"id" validate:"required"`
	StartsAt        time.Time `yaml:"starts_at" json:"starts_at" validate:"required"`
	EndsAt          time.Time `yaml:"ends_at" json:"ends_at" validate:"required,gtfield=StartsAt"`
	FeaturedItemIDs []string  `yaml:"featured_item_ids" json:"featured_item_ids" validate:"required,min=1,dive,required"`
	RateUpShare     string    `yaml:"rate_up_share" json:"rate_up_share" validate:"required"`
}

// GachaPoolDef is one loot box type.
type GachaPoolDef struct {
	Type              string            `yaml:"type" json:"type" validate:"required"`
	Cost              CostDef           `yaml:"cost" json:"cost"`
	MultiPullDiscount string            `yaml:"multi_pull_discount" json:"multi_pull_discount"`
	DiscountMinCount  int               `yaml:"discount_min_count" json:"discount_min_count" validate:"gte=0"`
	Rates             map[string]string `yaml:"rates" json:"rates" validate:"required,min=1"`
	Pity              PityDef           `yaml:"pity" json:"pity"`
	Items             []ItemDef         `yaml:"items" json:"items" validate:"required,min=1,dive"`
	Banners           []BannerDef       `yaml:"banners" json:"banners" validate:"dive"`
}

// WheelDef is one prize wheel.
type WheelDef struct {
	ID                  string            `yaml:"id" json:"id" validate:"required"`
	SpinCost            CostDef           `yaml:"spin_cost" json:"spin_cost"`
	JackpotContribution int64             `yaml:"jackpot_contribution" json:"jackpot_contribution" validate:"gte=0"`
	JackpotBase         int64             `yaml:"jackpot_base" json:"jackpot_base" validate:"gte=0"`
	CooldownDays        int               `yaml:"cooldown_days" json:"cooldown_days" validate:"required,min=1"`
	StreakStep          string            `yaml:"streak_step" json:"streak_step" validate:"required"`
	MaxMultiplier       string            `yaml:"max_multiplier" json:"max_multiplier" validate:"required"`
	Rates               map[string]string `yaml:"rates" json:"rates" validate:"required,min=1"`
	Items               []ItemDef         `yaml:"items" json:"items" validate:"required,min=1,dive"`
}
