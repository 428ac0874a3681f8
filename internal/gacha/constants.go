package gacha

// History paging
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Log messages
const (
	LogMsgPullCompleted = "Pull completed"
	LogMsgPullReplayed  = "Pull replayed from attempt"
	LogMsgPublishFailed = "Failed to publish pull event"
)
