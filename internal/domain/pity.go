package domain

import "time"

// PityLedger holds a player's pulls on one pool since the last qualifying
// tier. Each pool keeps its own counters.
type PityLedger struct {
	PlayerID      string    `json:"player_id"`
	PoolType      string    `json:"pool_type"`
	EpicPity      int       `json:"epic_pity"`
	LegendaryPity int       `json:"legendary_pity"`
	TotalPulls    int       `json:"total_pulls"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PityRules configures hard and soft pity for one gacha pool.
// Soft steps are in probability units per pull past the soft start.
type PityRules struct {
	EpicFloor          Rarity `json:"epic_floor"`
	LegendaryFloor     Rarity `json:"legendary_floor"`
	HardEpic           int    `json:"hard_epic"`
	HardLegendary      int    `json:"hard_legendary"`
	SoftEpicStart      int    `json:"soft_epic_start"`
	SoftLegendaryStart int    `json:"soft_legendary_start"`
	SoftEpicStep       int64  `json:"soft_epic_step"`
	SoftLegendaryStep  int64  `json:"soft_legendary_step"`
}

// Enabled reports whether any pity rule is configured.
func (r PityRules) Enabled() bool {
	return r.HardEpic > 0 || r.HardLegendary > 0
}

// HardPityKind names the hard-pity rule that shaped a draw.
type HardPityKind string

const (
	HardPityNone      HardPityKind = ""
	HardPityEpic      HardPityKind = "epic"
	HardPityLegendary HardPityKind = "legendary"
)
