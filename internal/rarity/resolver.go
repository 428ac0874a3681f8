// Package rarity turns a base rarity table and a pity ledger into the
// adjusted table used for one draw.
//
// Tables are integer units (domain.TotalUnits == 100%), so "sums to exactly
// 100" is an integer equality. Two orders are fixed by the rarity ladder:
//
//   - Rounding tie-break: proportional renormalization floors every tier and
//     gives the remainder to the lowest-ladder eligible tier that has base
//     weight.
//   - Soft-pity steal priority: a boosted tier takes weight from the tiers
//     strictly below it in ascending ladder order (most common first),
//     skipping tiers that are already zero. Each donor gives at most what it
//     holds; once every donor is empty the boost is truncated.
package rarity

import (
	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Adjusted is a table ready for sampling.
type Adjusted struct {
	Table    domain.RarityTable
	HardPity domain.HardPityKind
}

// Resolve computes the adjusted table for the next draw.
func Resolve(base domain.RarityTable, rules domain.PityRules, ledger domain.PityLedger) (Adjusted, error) {
	if err := Check(base); err != nil {
		return Adjusted{}, err
	}
	if !rules.Enabled() {
		return Adjusted{Table: base}, nil
	}

	epic := clamp(ledger.EpicPity, rules.HardEpic)
	legendary := clamp(ledger.LegendaryPity, rules.HardLegendary)

	// Legendary hard pity wins when both are active.
	if hardActive(legendary, rules.HardLegendary) && base.MassAtLeast(rules.LegendaryFloor) > 0 {
		table, err := restrict(base, rules.LegendaryFloor)
		if err != nil {
			return Adjusted{}, err
		}
		return Adjusted{Table: table, HardPity: domain.HardPityLegendary}, nil
	}
	if hardActive(epic, rules.HardEpic) && base.MassAtLeast(rules.EpicFloor) > 0 {
		table, err := restrict(base, rules.EpicFloor)
		if err != nil {
			return Adjusted{}, err
		}
		return Adjusted{Table: table, HardPity: domain.HardPityEpic}, nil
	}

	table := base
	if rules.SoftLegendaryStep > 0 && legendary > rules.SoftLegendaryStart {
		table = boost(table, rules.LegendaryFloor, rules.SoftLegendaryStep*int64(legendary-rules.SoftLegendaryStart))
	}
	if rules.SoftEpicStep > 0 && epic > rules.SoftEpicStart {
		table = boost(table, rules.EpicFloor, rules.SoftEpicStep*int64(epic-rules.SoftEpicStart))
	}

	if err := Check(table); err != nil {
		return Adjusted{}, err
	}
	return Adjusted{Table: table}, nil
}

// Exclude removes one tier and spreads its mass over the others in
// proportion to their weights.
func Exclude(base domain.RarityTable, tier domain.Rarity) (domain.RarityTable, error) {
	if base.Weight(tier) == 0 {
		return base, nil
	}
	return renormalize(base.With(tier, 0))
}

// Check verifies a table is non-negative and sums to exactly 100%.
func Check(table domain.RarityTable) error {
	for i, w := range table {
		if w < 0 {
			return domain.NewInternalConsistencyError(ComponentName, "tier %s has negative weight %d", domain.RarityLadder[i], w)
		}
	}
	if total := table.Total(); total != domain.TotalUnits {
		return domain.NewInternalConsistencyError(ComponentName, "table sums to %s%%", FormatPercent(total))
	}
	return nil
}

func clamp(counter, hard int) int {
	if counter < 0 {
		return 0
	}
	if hard > 0 && counter > hard-1 {
		return hard - 1
	}
	return counter
}

func hardActive(counter, hard int) bool {
	return hard > 0 && counter >= hard-1
}

// restrict zeroes every tier below floor and renormalizes the rest.
func restrict(base domain.RarityTable, floor domain.Rarity) (domain.RarityTable, error) {
	var table domain.RarityTable
	for i := floor.Rank(); i < domain.NumRarities; i++ {
		table[i] = base[i]
	}
	return renormalize(table)
}

// renormalize scales the table to TotalUnits, flooring each tier and
// handing the remainder to the lowest-ladder tier with weight.
func renormalize(table domain.RarityTable) (domain.RarityTable, error) {
	sum := table.Total()
	if sum <= 0 {
		return table, domain.NewInternalConsistencyError(ComponentName, "no mass left to renormalize")
	}

	var out domain.RarityTable
	var assigned int64
	tieBreak := -1
	for i, w := range table {
		if w <= 0 {
			continue
		}
		if tieBreak < 0 {
			tieBreak = i
		}
		out[i] = w * domain.TotalUnits / sum
		assigned += out[i]
	}
	out[tieBreak] += domain.TotalUnits - assigned
	return out, nil
}

// boost moves up to amount units onto tier, taking them from lower tiers
// in ascending ladder order.
func boost(table domain.RarityTable, tier domain.Rarity, amount int64) domain.RarityTable {
	target := tier.Rank()
	if target <= 0 || table[target] == 0 || amount <= 0 {
		return table
	}

	remaining := amount
	for i := 0; i < target && remaining > 0; i++ {
		if table[i] == 0 {
			continue
		}
		take := min(table[i], remaining)
		table[i] -= take
		table[target] += take
		remaining -= take
	}
	return table
}
