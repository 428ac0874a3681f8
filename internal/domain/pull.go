package domain

import "time"

// PullRecord is the immutable history row written for every draw.
type PullRecord struct {
	ID               string    `json:"id"`
	PlayerID         string    `json:"player_id"`
	PoolType         string    `json:"pool_type"`
	BannerID         *string   `json:"banner_id,omitempty"`
	ItemID           string    `json:"item_id"`
	Rarity           Rarity    `json:"rarity"`
	WasFeatured      bool      `json:"was_featured"`
	PullIndex        int       `json:"pull_index"`
	WasPityTriggered bool      `json:"was_pity_triggered"`
	AttemptID        string    `json:"attempt_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Balances maps currency to the player's current amount.
type Balances map[Currency]int64

// GrantKind describes the economy effect of a draw.
type GrantKind string

const (
	GrantInventory    GrantKind = "inventory"
	GrantCurrency     GrantKind = "currency"
	GrantCompensation GrantKind = "duplicate_compensation"
	GrantJackpot      GrantKind = "jackpot"
)

// Grant is what the player received for one draw.
type Grant struct {
	Kind     GrantKind `json:"kind"`
	ItemID   string    `json:"item_id,omitempty"`
	Currency Currency  `json:"currency,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
}

// DrawOutcome is one completed draw inside a pull or spin.
type DrawOutcome struct {
	Item             Item   `json:"item"`
	Rarity           Rarity `json:"rarity"`
	WasFeatured      bool   `json:"was_featured"`
	WasPityTriggered bool   `json:"was_pity_triggered"`
	PullIndex        int    `json:"pull_index"`
	Grant            Grant  `json:"grant"`
}

// BatchSummary aggregates a multi-pull.
type BatchSummary struct {
	CountsByRarity map[Rarity]int `json:"counts_by_rarity"`
	Featured       int            `json:"featured"`
	PityTriggered  int            `json:"pity_triggered"`
}

// Add folds one draw into the summary.
func (s *BatchSummary) Add(o DrawOutcome) {
	if s.CountsByRarity == nil {
		s.CountsByRarity = make(map[Rarity]int)
	}
	s.CountsByRarity[o.Rarity]++
	if o.WasFeatured {
		s.Featured++
	}
	if o.WasPityTriggered {
		s.PityTriggered++
	}
}

// Cost is an amount of one currency.
type Cost struct {
	Currency Currency `json:"currency"`
	Amount   int64    `json:"amount"`
}

// PullResult answers a single pull.
type PullResult struct {
	DrawOutcome
	Cost     Cost       `json:"cost"`
	Pity     PityLedger `json:"pity"`
	Balances Balances   `json:"balances"`
	Replayed bool       `json:"replayed,omitempty"`
}

// MultiPullResult answers a batch pull.
type MultiPullResult struct {
	Items    []DrawOutcome `json:"items"`
	Summary  BatchSummary  `json:"summary"`
	Cost     Cost          `json:"cost"`
	Pity     PityLedger    `json:"pity"`
	Balances Balances      `json:"balances"`
	Replayed bool          `json:"replayed,omitempty"`
}

// SpinResult answers a wheel spin.
type SpinResult struct {
	DrawOutcome
	SpinType        SpinType      `json:"spin_type"`
	BonusMultiplier *string       `json:"bonus_multiplier,omitempty"`
	Jackpot         JackpotPool   `json:"jackpot"`
	JackpotWon      bool          `json:"jackpot_won"`
	FreeSpin        FreeSpinState `json:"free_spin"`
	NextFreeSpinAt  time.Time     `json:"next_free_spin_at"`
	Balances        Balances      `json:"balances"`
	Replayed        bool          `json:"replayed,omitempty"`
}

// OddsResult is the public rate disclosure of one pool.
type OddsResult struct {
	PoolType                 string            `json:"pool_type"`
	Region                   string            `json:"region"`
	RatesTable               map[Rarity]string `json:"rates_table"`
	PityThresholds           PityThresholds    `json:"pity_thresholds"`
	RegionRequiresDisclosure bool              `json:"region_requires_disclosure"`
	ActiveBannerID           string            `json:"active_banner_id,omitempty"`
}

// PityThresholds is the player-facing subset of PityRules.
type PityThresholds struct {
	HardEpic           int `json:"hard_epic,omitempty"`
	HardLegendary      int `json:"hard_legendary,omitempty"`
	SoftEpicStart      int `json:"soft_epic_start,omitempty"`
	SoftLegendaryStart int `json:"soft_legendary_start,omitempty"`
}

// Attempt is a stored response keyed by a caller-supplied attempt id.
type Attempt struct {
	PlayerID  string    `json:"player_id"`
	AttemptID string    `json:"attempt_id"`
	Operation string    `json:"operation"`
	Response  []byte    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Attempt operations.
const (
	OperationPull      = "pull"
	OperationMultiPull = "multi_pull"
	OperationSpin      = "spin"
)
