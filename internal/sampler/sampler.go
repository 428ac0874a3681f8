// Package sampler draws a rarity tier from an adjusted table and then a
// concrete item from the pool, applying banner rate-up.
package sampler

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// RateUpScale is the denominator of Banner.RateUpShare (basis points).
const RateUpScale = 10_000

// ComponentName labels errors raised by this package.
const ComponentName = "weighted_sampler"

// Draw is the sampler's output for one roll.
type Draw struct {
	Item        domain.Item
	Rarity      domain.Rarity
	WasFeatured bool
}

type band struct {
	tier  domain.Rarity
	upper int64 // exclusive cumulative bound
}

// Sampler rolls tiers and items from an injected RandomSource.
type Sampler struct {
	rng RandomSource
}

// New creates a Sampler. A nil source uses DefaultSource.
func New(rng RandomSource) *Sampler {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Sampler{rng: rng}
}

// PickTier rolls one tier. Bands are cumulative in ladder order and the
// first band whose bound exceeds the roll wins, so zero-weight tiers are
// never chosen.
func (s *Sampler) PickTier(table domain.RarityTable) (domain.Rarity, error) {
	bands := cumulative(table)
	if len(bands) == 0 || bands[len(bands)-1].upper != domain.TotalUnits {
		return "", domain.NewInternalConsistencyError(ComponentName, "table sums to %d units", table.Total())
	}

	roll := int64(s.rng.IntN(int(domain.TotalUnits)))
	idx := sort.Search(len(bands), func(i int) bool {
		return bands[i].upper > roll
	})
	return bands[idx].tier, nil
}

// Draw rolls a tier and then an item of that tier from pool.
func (s *Sampler) Draw(ctx context.Context, table domain.RarityTable, pool *domain.RewardPool, banner *domain.Banner, now time.Time) (Draw, error) {
	tier, err := s.PickTier(table)
	if err != nil {
		return Draw{}, err
	}

	candidates := pool.ItemsOfTier(tier)
	if len(candidates) == 0 {
		return s.fallback(ctx, pool, tier)
	}

	if banner.Active(now) && banner.PoolType == pool.Type {
		featured := make([]domain.Item, 0, len(banner.FeaturedItemIDs))
		for _, it := range candidates {
			if banner.Features(it.ID) {
				featured = append(featured, it)
			}
		}
		if len(featured) > 0 && s.rng.IntN(RateUpScale) < banner.RateUpShare {
			return Draw{Item: s.pick(featured), Rarity: tier, WasFeatured: true}, nil
		}
	}

	return Draw{Item: s.pick(candidates), Rarity: tier}, nil
}

// fallback samples the whole pool when the drawn tier has no items.
// Jackpot items are never candidates: only the jackpot tier may pay the
// escrow.
func (s *Sampler) fallback(ctx context.Context, pool *domain.RewardPool, tier domain.Rarity) (Draw, error) {
	candidates := slices.DeleteFunc(pool.Items(), func(it domain.Item) bool {
		return it.Type == domain.ItemTypeJackpot
	})
	if len(candidates) == 0 {
		return Draw{}, domain.NewInternalConsistencyError(ComponentName, "pool %s has no available items", pool.Type)
	}
	logger.FromContext(ctx).Error(LogMsgEmptyTierFallback,
		"error", domain.ErrMsgInternalConsistency,
		"pool", pool.Type,
		"tier", tier)
	return Draw{Item: s.pick(candidates), Rarity: tier}, nil
}

func (s *Sampler) pick(items []domain.Item) domain.Item {
	return items[s.rng.IntN(len(items))]
}

func cumulative(table domain.RarityTable) []band {
	bands := make([]band, 0, domain.NumRarities)
	var acc int64
	for i, w := range table {
		if w <= 0 {
			continue
		}
		acc += w
		bands = append(bands, band{tier: domain.RarityLadder[i], upper: acc})
	}
	return bands
}

// Log messages
const (
	LogMsgEmptyTierFallback = "Drawn tier has no items, sampling whole pool"
)
