package gacha

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
)

// GetOdds discloses the base rates of a pool. The table shown is the base
// table; pity adjustments are described by the thresholds.
func (s *service) GetOdds(_ context.Context, poolType, region string) (*domain.OddsResult, error) {
	pool, ok := s.catalog.Pool(poolType)
	if !ok {
		return nil, &domain.ValidationError{Field: "pool", Reason: fmt.Sprintf("unknown pool %q", poolType), Err: domain.ErrPoolNotFound}
	}

	result := &domain.OddsResult{
		PoolType:   poolType,
		RatesTable: rarity.Render(pool.Base),
		PityThresholds: domain.PityThresholds{
			HardEpic:           pool.Rules.HardEpic,
			HardLegendary:      pool.Rules.HardLegendary,
			SoftEpicStart:      pool.Rules.SoftEpicStart,
			SoftLegendaryStart: pool.Rules.SoftLegendaryStart,
		},
	}

	if region != "" {
		r, err := language.ParseRegion(region)
		if err != nil {
			return nil, domain.NewValidationError("region", fmt.Sprintf("unknown region %q", region))
		}
		result.Region = r.String()
		result.RegionRequiresDisclosure = s.catalog.DisclosureRegions[result.Region]
	}

	if b := pool.ActiveBanner(s.now()); b != nil {
		result.ActiveBannerID = b.ID
	}
	return result, nil
}
