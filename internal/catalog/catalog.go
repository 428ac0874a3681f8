// Package catalog loads the reward configuration once at startup and turns
// it into the immutable tables, pools and rules the engine runs on.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
)

// GachaPool is a loot box type ready to draw from.
type GachaPool struct {
	Pool              *domain.RewardPool
	Base              domain.RarityTable
	Rules             domain.PityRules
	Cost              domain.Cost
	MultiPullDiscount decimal.Decimal // fraction off, 0.1 is 10%
	DiscountMinCount  int
	Banners           []*domain.Banner
}

// Banner returns the banner with id.
func (g *GachaPool) Banner(id string) (*domain.Banner, bool) {
	for _, b := range g.Banners {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// ActiveBanner returns the first banner whose window contains now.
func (g *GachaPool) ActiveBanner(now time.Time) *domain.Banner {
	for _, b := range g.Banners {
		if b.Active(now) {
			return b
		}
	}
	return nil
}

// Wheel is a prize wheel with its jackpot escrow settings.
type Wheel struct {
	ID   string
	Pool *domain.RewardPool
	Base domain.RarityTable
	// FreeBase is Base with the jackpot tier removed.
	FreeBase            domain.RarityTable
	SpinCost            domain.Cost
	JackpotContribution int64
	JackpotBase         int64
	CooldownDays        int
	StreakStep          decimal.Decimal
	MaxMultiplier       decimal.Decimal
}

// Catalog is the whole validated configuration.
type Catalog struct {
	Version           string
	MaxMultiPull      int
	Compensation      grant.Compensation
	DisclosureRegions map[string]bool
	Pools             map[string]*GachaPool
	Wheels            map[string]*Wheel
}

// Pool looks up a gacha pool by type.
func (c *Catalog) Pool(poolType string) (*GachaPool, bool) {
	p, ok := c.Pools[poolType]
	return p, ok
}

// Wheel looks up a wheel by id.
func (c *Catalog) Wheel(id string) (*Wheel, bool) {
	w, ok := c.Wheels[id]
	return w, ok
}

// PoolTypes returns the gacha pool types in sorted order.
func (c *Catalog) PoolTypes() []string {
	out := make([]string, 0, len(c.Pools))
	for t := range c.Pools {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// WheelIDs returns the wheel ids in sorted order.
func (c *Catalog) WheelIDs() []string {
	out := make([]string, 0, len(c.Wheels))
	for id := range c.Wheels {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Build converts a decoded File into a Catalog, running the checks that
// struct tags cannot express.
func Build(f File) (*Catalog, error) {
	c := &Catalog{
		Version:           f.Version,
		MaxMultiPull:      f.MaxMultiPull,
		Compensation:      make(grant.Compensation, len(f.DuplicateCompensation)),
		DisclosureRegions: make(map[string]bool, len(f.DisclosureRegions)),
		Pools:             make(map[string]*GachaPool, len(f.GachaPools)),
		Wheels:            make(map[string]*Wheel, len(f.Wheels)),
	}
	if len(f.GachaPools) == 0 && len(f.Wheels) == 0 {
		return nil, errors.New(ErrMsgNoPools)
	}

	for tier, amount := range f.DuplicateCompensation {
		c.Compensation[domain.Rarity(tier)] = amount
	}

	for _, code := range f.DisclosureRegions {
		region, err := language.ParseRegion(code)
		if err != nil {
			return nil, fmt.Errorf("disclosure region %q: %w", code, err)
		}
		c.DisclosureRegions[region.String()] = true
	}

	used := make(map[domain.Rarity]bool)
	for _, def := range f.GachaPools {
		if _, dup := c.Pools[def.Type]; dup {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicatePool, def.Type)
		}
		pool, err := buildGachaPool(def)
		if err != nil {
			return nil, fmt.Errorf("gacha pool %q: %w", def.Type, err)
		}
		for _, r := range pool.Base.Tiers() {
			used[r] = true
		}
		c.Pools[def.Type] = pool
	}

	for _, def := range f.Wheels {
		if _, dup := c.Wheels[def.ID]; dup {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicateWheel, def.ID)
		}
		wheel, err := buildWheel(def)
		if err != nil {
			return nil, fmt.Errorf("wheel %q: %w", def.ID, err)
		}
		for _, r := range wheel.Base.Tiers() {
			if r != domain.RarityJackpot {
				used[r] = true
			}
		}
		c.Wheels[def.ID] = wheel
	}

	tiers := make([]domain.Rarity, 0, len(used))
	for _, r := range domain.RarityLadder {
		if used[r] {
			tiers = append(tiers, r)
		}
	}
	if err := c.Compensation.Validate(tiers); err != nil {
		return nil, err
	}
	return c, nil
}

func buildGachaPool(def GachaPoolDef) (*GachaPool, error) {
	base, err := parseRates(def.Rates)
	if err != nil {
		return nil, err
	}
	if base.Weight(domain.RarityJackpot) > 0 {
		return nil, errors.New(ErrMsgJackpotInGacha)
	}

	items, err := buildItems(def.Items, false)
	if err != nil {
		return nil, err
	}
	pool := newPool(def.Type, domain.PoolKindGacha, items, def.Items)
	if err := checkTierCoverage(base, pool); err != nil {
		return nil, err
	}

	rules, err := buildPity(def.Pity)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if def.MultiPullDiscount != "" {
		discount, err = decimal.NewFromString(def.MultiPullDiscount)
		if err != nil {
			return nil, fmt.Errorf("multi_pull_discount: %w", err)
		}
		if discount.IsNegative() || discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("multi_pull_discount %s must be in [0, 1)", discount)
		}
	}

	g := &GachaPool{
		Pool:              pool,
		Base:              base,
		Rules:             rules,
		Cost:              domain.Cost{Currency: domain.Currency(def.Cost.Currency), Amount: def.Cost.Amount},
		MultiPullDiscount: discount,
		DiscountMinCount:  def.DiscountMinCount,
	}

	for _, bd := range def.Banners {
		banner, err := buildBanner(def.Type, bd, pool)
		if err != nil {
			return nil, fmt.Errorf("banner %q: %w", bd.ID, err)
		}
		if _, dup := g.Banner(banner.ID); dup {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicateBanner, banner.ID)
		}
		g.Banners = append(g.Banners, banner)
	}
	return g, nil
}

func buildWheel(def WheelDef) (*Wheel, error) {
	base, err := parseRates(def.Rates)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(def.Items, true)
	if err != nil {
		return nil, err
	}

	hasJackpotItem := false
	for _, it := range items {
		if it.Type == domain.ItemTypeJackpot {
			hasJackpotItem = true
		}
	}
	if base.Weight(domain.RarityJackpot) > 0 && !hasJackpotItem {
		return nil, errors.New(ErrMsgJackpotItemMissing)
	}
	pool := newPool(def.ID, domain.PoolKindWheel, items, def.Items)
	if err := checkTierCoverage(base, pool); err != nil {
		return nil, err
	}

	freeBase, err := rarity.Exclude(base, domain.RarityJackpot)
	if err != nil {
		return nil, err
	}

	step, err := decimal.NewFromString(def.StreakStep)
	if err != nil {
		return nil, fmt.Errorf("streak_step: %w", err)
	}
	maxMult, err := decimal.NewFromString(def.MaxMultiplier)
	if err != nil {
		return nil, fmt.Errorf("max_multiplier: %w", err)
	}
	if step.IsNegative() || maxMult.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("streak_step %s must be >= 0 and max_multiplier %s >= 1", step, maxMult)
	}

	return &Wheel{
		ID:                  def.ID,
		Pool:                pool,
		Base:                base,
		FreeBase:            freeBase,
		SpinCost:            domain.Cost{Currency: domain.Currency(def.SpinCost.Currency), Amount: def.SpinCost.Amount},
		JackpotContribution: def.JackpotContribution,
		JackpotBase:         def.JackpotBase,
		CooldownDays:        def.CooldownDays,
		StreakStep:          step,
		MaxMultiplier:       maxMult,
	}, nil
}

func parseRates(rates map[string]string) (domain.RarityTable, error) {
	typed := make(map[domain.Rarity]string, len(rates))
	for tier, pct := range rates {
		typed[domain.Rarity(tier)] = pct
	}
	return rarity.ParseTable(typed)
}

func buildItems(defs []ItemDef, allowJackpot bool) ([]domain.Item, error) {
	seen := make(map[string]bool, len(defs))
	items := make([]domain.Item, 0, len(defs))
	for _, d := range defs {
		if seen[d.ID] {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicateItem, d.ID)
		}
		seen[d.ID] = true

		it := domain.Item{
			ID:       d.ID,
			Name:     d.Name,
			Type:     domain.ItemType(d.Type),
			Rarity:   domain.Rarity(d.Rarity),
			Currency: domain.Currency(d.Currency),
			Amount:   d.Amount,
		}
		switch it.Type {
		case domain.ItemTypeCurrency:
			if it.Currency == "" || it.Amount <= 0 {
				return nil, fmt.Errorf("currency item %s needs a currency and a positive amount", it.ID)
			}
		case domain.ItemTypeJackpot:
			if !allowJackpot || it.Rarity != domain.RarityJackpot {
				return nil, fmt.Errorf("jackpot item %s is only allowed on a wheel with rarity jackpot", it.ID)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

func newPool(id string, kind domain.PoolKind, items []domain.Item, defs []ItemDef) *domain.RewardPool {
	pool := domain.NewRewardPool(id, kind, items)
	for _, d := range defs {
		if d.Disabled {
			pool.SetAvailable(d.ID, false)
		}
	}
	return pool
}

// checkTierCoverage rejects a weighted tier with no enabled item. The
// sampler would otherwise fall back to the whole pool on every draw of it.
func checkTierCoverage(base domain.RarityTable, pool *domain.RewardPool) error {
	for _, tier := range base.Tiers() {
		if len(pool.ItemsOfTier(tier)) == 0 {
			return fmt.Errorf("%s: %s", ErrMsgTierWithoutItems, tier)
		}
	}
	return nil
}

func buildPity(def PityDef) (domain.PityRules, error) {
	rules := domain.PityRules{
		EpicFloor:          domain.Rarity(def.EpicFloor),
		LegendaryFloor:     domain.Rarity(def.LegendaryFloor),
		HardEpic:           def.HardEpic,
		HardLegendary:      def.HardLegendary,
		SoftEpicStart:      def.SoftEpicStart,
		SoftLegendaryStart: def.SoftLegendaryStart,
	}
	var err error
	if def.SoftEpicStep != "" {
		if rules.SoftEpicStep, err = rarity.ParsePercent(def.SoftEpicStep); err != nil {
			return rules, fmt.Errorf("soft_epic_step: %w", err)
		}
	}
	if def.SoftLegendaryStep != "" {
		if rules.SoftLegendaryStep, err = rarity.ParsePercent(def.SoftLegendaryStep); err != nil {
			return rules, fmt.Errorf("soft_legendary_step: %w", err)
		}
	}

	// soft pity only runs below a hard threshold
	if rules.HardEpic == 0 && (rules.SoftEpicStart > 0 || rules.SoftEpicStep > 0) {
		return rules, errors.New(ErrMsgSoftPityWithoutHard + ": epic")
	}
	if rules.HardLegendary == 0 && (rules.SoftLegendaryStart > 0 || rules.SoftLegendaryStep > 0) {
		return rules, errors.New(ErrMsgSoftPityWithoutHard + ": legendary")
	}
	if rules.HardEpic > 0 && rules.EpicFloor == "" {
		return rules, errors.New("hard_epic requires epic_floor")
	}
	if rules.HardLegendary > 0 && rules.LegendaryFloor == "" {
		return rules, errors.New("hard_legendary requires legendary_floor")
	}
	if rules.HardEpic > 0 && rules.SoftEpicStart >= rules.HardEpic {
		return rules, fmt.Errorf("soft_epic_start %d must be below hard_epic %d", rules.SoftEpicStart, rules.HardEpic)
	}
	if rules.HardLegendary > 0 && rules.SoftLegendaryStart >= rules.HardLegendary {
		return rules, fmt.Errorf("soft_legendary_start %d must be below hard_legendary %d", rules.SoftLegendaryStart, rules.HardLegendary)
	}
	return rules, nil
}

func buildBanner(poolType string, def BannerDef, pool *domain.RewardPool) (*domain.Banner, error) {
	share, err := rarity.ParsePercent(def.RateUpShare)
	if err != nil {
		return nil, fmt.Errorf("rate_up_share: %w", err)
	}
	if share > domain.TotalUnits || share%bannerShareUnit != 0 {
		return nil, fmt.Errorf("rate_up_share %s must be at most 100 with two decimals", def.RateUpShare)
	}
	for _, id := range def.FeaturedItemIDs {
		if _, ok := pool.Item(id); !ok {
			return nil, fmt.Errorf("%s: %s", ErrMsgUnknownFeaturedItem, id)
		}
	}
	return &domain.Banner{
		ID:              def.ID,
		PoolType:        poolType,
		StartsAt:        def.StartsAt.UTC(),
		EndsAt:          def.EndsAt.UTC(),
		FeaturedItemIDs: append([]string(nil), def.FeaturedItemIDs...),
		RateUpShare:     int(share / bannerShareUnit),
	}, nil
}
