package config

import "time"

// DefaultCatalogPath is the reward catalog loaded when CATALOG_PATH is unset.
const DefaultCatalogPath = "configs/rewards.yaml"

// EnvironmentProduction is the ENVIRONMENT value for live deployments.
const EnvironmentProduction = "prod"

// Cache and worker defaults
const (
	DefaultReplayCacheSize          = 10_000
	DefaultReplayCacheTTL           = 10 * time.Minute
	DefaultJackpotCacheTTL          = 30 * time.Second
	DefaultJackpotBroadcastInterval = 15 * time.Second
)

// Database pool defaults
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = time.Hour
)

// Worker pool defaults
const (
	DefaultWorkerCount     = 2
	DefaultWorkerQueueSize = 64
)
