package rarity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// ComponentName labels errors raised by this package.
const ComponentName = "rarity_resolver"

// ParsePercent converts a percentage such as "4.5" into table units.
// More than domain.PercentScale decimal places is rejected rather than rounded.
func ParsePercent(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("percentage %q is negative", s)
	}
	units := d.Shift(domain.PercentScale)
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("percentage %q has more than %d decimal places", s, domain.PercentScale)
	}
	return units.IntPart(), nil
}

// FormatPercent renders table units as a percentage string ("4.5", "70").
func FormatPercent(units int64) string {
	return decimal.New(units, -domain.PercentScale).String()
}

// ParseTable builds a base table from percentage strings keyed by rarity.
func ParseTable(rates map[domain.Rarity]string) (domain.RarityTable, error) {
	var table domain.RarityTable
	for r, s := range rates {
		if !r.Valid() {
			return table, fmt.Errorf("unknown rarity %q", r)
		}
		units, err := ParsePercent(s)
		if err != nil {
			return table, fmt.Errorf("rarity %s: %w", r, err)
		}
		table = table.With(r, units)
	}
	if err := Check(table); err != nil {
		return table, err
	}
	return table, nil
}

// Render turns a table back into percentage strings for tiers with weight.
func Render(table domain.RarityTable) map[domain.Rarity]string {
	out := make(map[domain.Rarity]string)
	for _, r := range table.Tiers() {
		out[r] = FormatPercent(table.Weight(r))
	}
	return out
}
