package user

import "time"

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cache entries
const DefaultCacheSize = 1000

// DefaultCacheTTL is the default time-to-live for cache entries
const DefaultCacheTTL = 5 * time.Minute

// Log Messages
const (
	LogMsgRegisterUserCalled = "RegisterUser called"
	LogMsgUserRegistered     = "User registered"
	LogMsgUserCacheHit       = "User cache hit"
	LogErrFailedToUpsertUser = "Failed to upsert user"
)

// Error Messages
const (
	ErrMsgCreateEconomyFailed = "failed to create user economy"
	ErrMsgUnknownPlatform     = "unknown platform"
)
