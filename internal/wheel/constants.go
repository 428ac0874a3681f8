package wheel

// ActionFreeSpin names the claim in AlreadyClaimedError.
const ActionFreeSpin = "free_spin"

// Log messages
const (
	LogMsgSpinCompleted  = "Wheel spin completed"
	LogMsgSpinReplayed   = "Wheel spin replayed from attempt"
	LogMsgJackpotWon     = "Jackpot won"
	LogMsgJackpotEnsured = "Jackpot escrow ready"
	LogMsgPublishFailed  = "Failed to publish wheel event"
)
