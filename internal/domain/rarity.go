package domain

// Rarity is a tier on the fixed rarity ladder.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityJackpot   Rarity = "jackpot"
)

// NumRarities is the length of RarityLadder.
const NumRarities = 6

// RarityLadder lists every tier in ascending order. The tier walk, the
// rounding tie-break and the soft-pity steal order all follow it.
var RarityLadder = [NumRarities]Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
	RarityJackpot,
}

// Rank returns the ladder position of r, or -1 if r is not on the ladder.
func (r Rarity) Rank() int {
	for i, tier := range RarityLadder {
		if tier == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is on the ladder.
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// AtLeast reports whether r ranks at or above floor.
func (r Rarity) AtLeast(floor Rarity) bool {
	rank := r.Rank()
	return rank >= 0 && rank >= floor.Rank()
}

// Probability units. 100% is TotalUnits, so a percentage carries
// PercentScale decimal places exactly (0.5% == 5000 units).
const PercentScale = 4

const (
	UnitsPerPercent int64 = 10_000
	TotalUnits      int64 = 100 * UnitsPerPercent
)

// RarityTable maps each ladder tier (by rank) to its weight in units.
// Base tables sum to TotalUnits.
type RarityTable [NumRarities]int64

// Weight returns the weight of tier r.
func (t RarityTable) Weight(r Rarity) int64 {
	rank := r.Rank()
	if rank < 0 {
		return 0
	}
	return t[rank]
}

// With returns a copy of t with tier r set to w.
func (t RarityTable) With(r Rarity, w int64) RarityTable {
	if rank := r.Rank(); rank >= 0 {
		t[rank] = w
	}
	return t
}

// Total sums all tier weights.
func (t RarityTable) Total() int64 {
	var sum int64
	for _, w := range t {
		sum += w
	}
	return sum
}

// Tiers returns the tiers with non-zero weight in ladder order.
func (t RarityTable) Tiers() []Rarity {
	tiers := make([]Rarity, 0, NumRarities)
	for i, w := range t {
		if w > 0 {
			tiers = append(tiers, RarityLadder[i])
		}
	}
	return tiers
}

// MassAtLeast sums the weight of tiers ranked at or above floor.
func (t RarityTable) MassAtLeast(floor Rarity) int64 {
	start := floor.Rank()
	if start < 0 {
		return 0
	}
	var sum int64
	for i := start; i < NumRarities; i++ {
		sum += t[i]
	}
	return sum
}
