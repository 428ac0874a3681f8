package domain

import "time"

// JackpotPool is the contribution-funded escrow of one wheel.
type JackpotPool struct {
	WheelID       string     `json:"wheel_id"`
	CurrentAmount int64      `json:"current_amount"`
	BaseAmount    int64      `json:"base_amount"`
	LastWinnerID  string     `json:"last_winner_id,omitempty"`
	LastWinAmount int64      `json:"last_win_amount,omitempty"`
	LastWinTime   *time.Time `json:"last_win_time,omitempty"`
}

// FreeSpinState tracks a player's daily free spin streak.
type FreeSpinState struct {
	PlayerID        string     `json:"player_id"`
	LastFreeSpinAt  *time.Time `json:"last_free_spin_at,omitempty"`
	ConsecutiveDays int        `json:"consecutive_days"`
}

// SpinType selects how a wheel spin is paid for.
type SpinType string

const (
	SpinTypeFree    SpinType = "free"
	SpinTypePremium SpinType = "premium"
)

// Valid reports whether t is a known spin type.
func (t SpinType) Valid() bool {
	return t == SpinTypeFree || t == SpinTypePremium
}
