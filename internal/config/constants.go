package config

import "time"

// Configuration file paths
const (
	ConfigPathItems = "configs/items.json"
)

// Defaults applied when the environment leaves a knob unset
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultWorkerCount     = 4
	DefaultWorkerQueueSize = 100

	DefaultUserCacheSize = 1000
	DefaultUserCacheTTL  = 5 * time.Minute

	DefaultEventRetentionDays       = 90
	DefaultTransactionRetentionDays = 90
	DefaultCleanupInterval          = 24 * time.Hour

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)
