package notify

// Embed styling
const (
	ColorJackpot   = 0xFFD700 // Gold
	FooterText     = "Fortune Wheel"
	BotTokenPrefix = "Bot "
)

// Log messages
const (
	LogMsgAnnouncerRegistered = "Discord jackpot announcer registered"
	LogMsgAnnounceFailed      = "Failed to announce jackpot win"
	LogMsgInvalidPayload      = "Invalid jackpot won event payload"
)
