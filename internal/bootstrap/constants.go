package bootstrap

import "time"

// ServiceName tags every log line
const ServiceName = "reward-engine"

const (
	DirPermission     = 0755
	LogFilePermission = 0666

	// Session logs are named session_<timestamp>.log; the newest
	// LogFileRetentionCount older files survive each startup.
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// Fallbacks used when the event settings in config are zero.
const (
	EventDefaultMaxRetries     = 5
	EventDefaultRetryDelay     = 2 * time.Second
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// RedisPingTimeout bounds the startup check against Redis
const RedisPingTimeout = 3 * time.Second

// startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingEngine      = "Starting reward engine"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"

	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgJackpotCacheRegistered         = "Jackpot cache subscribed"
	LogMsgFeedSubscriberRegistered       = "Jackpot feed subscribed"

	LogMsgUsingMemoryStore   = "Using in-memory reward store; state is lost on restart"
	LogMsgUsingPostgresStore = "Using PostgreSQL reward store"
	LogMsgUsingRedisCache    = "Using Redis jackpot cache"
	LogMsgUsingLocalCache    = "Using in-process jackpot cache"
	ErrMsgFailedConnectRedis = "failed to connect to redis"
)

// shutdown
const (
	LogMsgShuttingDownServer         = "Shutting down server"
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher"
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgClosingResource            = "Closing resource"
	LogMsgCloseFailed                = "Resource close failed"
)
