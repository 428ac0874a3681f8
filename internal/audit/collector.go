// Package audit measures empirical drop rates by running pulls through the
// real engine, so advertised odds can be checked against what players get.
package audit

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
)

// Distribution summarises how many pulls it took to reach a tier.
type Distribution struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	P50     int     `json:"p50"`
	P90     int     `json:"p90"`
	P99     int     `json:"p99"`
	Max     int     `json:"max"`
}

// TierStats compares one tier's advertised and observed rates, in percent.
type TierStats struct {
	Rarity     domain.Rarity `json:"rarity"`
	Advertised string        `json:"advertised"`
	Observed   string        `json:"observed"`
	Count      int           `json:"count"`
}

// Report is the outcome of a simulation run.
type Report struct {
	PoolType      string       `json:"pool_type"`
	Players       int          `json:"players"`
	Pulls         int          `json:"pulls"`
	Tiers         []TierStats  `json:"tiers"`
	PityTriggered int          `json:"pity_triggered"`
	Featured      int          `json:"featured"`
	Duplicates    int          `json:"duplicates"`
	ToEpic        Distribution `json:"pulls_to_epic"`
	ToLegendary   Distribution `json:"pulls_to_legendary"`
}

// Collector accumulates draw outcomes per player. It is not safe for
// concurrent use.
type Collector struct {
	epicFloor      domain.Rarity
	legendaryFloor domain.Rarity

	counts     [domain.NumRarities]int
	total      int
	pity       int
	featured   int
	duplicates int

	sinceEpic      map[string]int
	sinceLegendary map[string]int
	toEpic         []int
	toLegendary    []int
}

// NewCollector tracks pulls-to-tier against the pool's pity floors.
func NewCollector(rules domain.PityRules) *Collector {
	return &Collector{
		epicFloor:      rules.EpicFloor,
		legendaryFloor: rules.LegendaryFloor,
		sinceEpic:      make(map[string]int),
		sinceLegendary: make(map[string]int),
	}
}

// Observe records one draw for playerID.
func (c *Collector) Observe(playerID string, o domain.DrawOutcome) {
	if rank := o.Rarity.Rank(); rank >= 0 {
		c.counts[rank]++
	}
	c.total++
	if o.WasPityTriggered {
		c.pity++
	}
	if o.WasFeatured {
		c.featured++
	}
	if o.Grant.Kind == domain.GrantCompensation {
		c.duplicates++
	}

	c.sinceEpic[playerID]++
	c.sinceLegendary[playerID]++
	if o.Rarity.AtLeast(c.epicFloor) {
		c.toEpic = append(c.toEpic, c.sinceEpic[playerID])
		c.sinceEpic[playerID] = 0
	}
	if o.Rarity.AtLeast(c.legendaryFloor) {
		c.toLegendary = append(c.toLegendary, c.sinceLegendary[playerID])
		c.sinceLegendary[playerID] = 0
	}
}

// Report compares the observed rates with the advertised base table.
func (c *Collector) Report(poolType string, players int, advertised domain.RarityTable) Report {
	r := Report{
		PoolType:      poolType,
		Players:       players,
		Pulls:         c.total,
		PityTriggered: c.pity,
		Featured:      c.featured,
		Duplicates:    c.duplicates,
		ToEpic:        Summarize(c.toEpic),
		ToLegendary:   Summarize(c.toLegendary),
	}

	for i, tier := range domain.RarityLadder {
		if advertised[i] == 0 && c.counts[i] == 0 {
			continue
		}
		r.Tiers = append(r.Tiers, TierStats{
			Rarity:     tier,
			Advertised: rarity.FormatPercent(advertised[i]),
			Observed:   observedPercent(c.counts[i], c.total),
			Count:      c.counts[i],
		})
	}
	return r
}

func observedPercent(count, total int) string {
	if total == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), domain.PercentScale).
		String()
}

// Summarize computes nearest-rank percentiles of samples.
func Summarize(samples []int) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}
	sorted := append([]int(nil), samples...)
	sort.Ints(sorted)

	var sum int
	for _, v := range sorted {
		sum += v
	}
	return Distribution{
		Samples: len(sorted),
		Mean:    float64(sum) / float64(len(sorted)),
		P50:     percentile(sorted, 50),
		P90:     percentile(sorted, 90),
		P99:     percentile(sorted, 99),
		Max:     sorted[len(sorted)-1],
	}
}

func percentile(sorted []int, p float64) int {
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
