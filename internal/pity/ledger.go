// Package pity advances a player's pity ledger after each draw.
package pity

import (
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
)

// Advance applies one draw of tier to the ledger. Each tracked counter is
// either reset (tier at or above its floor) or incremented, never both.
// The second return value reports whether hard pity shaped this draw.
func Advance(ledger domain.PityLedger, tier domain.Rarity, rules domain.PityRules, adj rarity.Adjusted, now time.Time) (domain.PityLedger, bool) {
	next := ledger

	if rules.EpicFloor != "" && tier.AtLeast(rules.EpicFloor) {
		next.EpicPity = 0
	} else {
		next.EpicPity = nonNegative(ledger.EpicPity) + 1
	}

	if rules.LegendaryFloor != "" && tier.AtLeast(rules.LegendaryFloor) {
		next.LegendaryPity = 0
	} else {
		next.LegendaryPity = nonNegative(ledger.LegendaryPity) + 1
	}

	next.TotalPulls = nonNegative(ledger.TotalPulls) + 1
	next.UpdatedAt = now

	return next, adj.HardPity != domain.HardPityNone
}

// New returns the lazily created ledger for a player who never pulled on
// poolType.
func New(playerID, poolType string) domain.PityLedger {
	return domain.PityLedger{PlayerID: playerID, PoolType: poolType}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
