package feed

import "time"

// JackpotSnapshotPayload is sent whenever a wheel's escrow changes
type JackpotSnapshotPayload struct {
	WheelID       string `json:"wheel_id"`
	CurrentAmount int64  `json:"current_amount"`
	BaseAmount    int64  `json:"base_amount"`
}

func (p JackpotSnapshotPayload) wheel() string { return p.WheelID }

// JackpotWonPayload announces a payout; CurrentAmount is the reset escrow
type JackpotWonPayload struct {
	WheelID       string     `json:"wheel_id"`
	WinnerID      string     `json:"winner_id"`
	Amount        int64      `json:"amount"`
	CurrentAmount int64      `json:"current_amount"`
	WonAt         *time.Time `json:"won_at,omitempty"`
}

func (p JackpotWonPayload) wheel() string { return p.WheelID }

// ConnectedPayload is the first message on every connection
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Wheels   []string `json:"wheels,omitempty"`
}
