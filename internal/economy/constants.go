package economy

// MaxCreditAmount caps a single support top-up
const MaxCreditAmount = 1_000_000

// Log messages
const (
	LogMsgCredited = "Balance credited"
)
