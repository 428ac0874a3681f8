package cache

import "time"

// Defaults used when the app config leaves cache sizing unset.
const (
	DefaultReplayCacheSize  = 10_000
	DefaultReplayCacheTTL   = 10 * time.Minute
	DefaultJackpotCacheSize = 64
	DefaultJackpotCacheTTL  = 30 * time.Second
)

// Log messages
const (
	LogMsgRedisGetFailed = "Redis cache read failed, falling back to store"
	LogMsgRedisSetFailed = "Redis cache write failed"
)
