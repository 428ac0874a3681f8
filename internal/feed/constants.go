package feed

import "time"

const (
	// BroadcastBufferSize is the hub queue depth
	BroadcastBufferSize = 100
	// ClientEventBuffer is the per-client queue depth
	ClientEventBuffer = 50
)

// WebSocket connection settings
const (
	// PingInterval is how often the server pings idle clients
	PingInterval = 30 * time.Second

	// PongWait is how long a client may stay silent before it is dropped
	PongWait = 60 * time.Second

	// WriteTimeout is the deadline for a single frame write
	WriteTimeout = 10 * time.Second

	ReadBufferSize  = 1024
	WriteBufferSize = 1024
)

// Feed event types
const (
	EventTypeConnected      = "connected"
	EventTypeJackpotUpdated = "jackpot.updated"
	EventTypeJackpotWon     = "jackpot.won"
)

// Log messages
const (
	LogMsgClientConnected    = "Feed client connected"
	LogMsgClientDisconnected = "Feed client disconnected"
	LogMsgEventBroadcast     = "Broadcasting feed event"
	LogMsgBroadcastDropped   = "Feed broadcast buffer full, event dropped"
	LogMsgUpgradeFailed      = "WebSocket upgrade failed"
	LogMsgWriteError         = "Failed to write feed event"
)
