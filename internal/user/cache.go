package user

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string       `json:"version"`
	User     *domain.User `json:"user"`
	CachedAt time.Time    `json:"cached_at"`
}

// userCache provides an in-memory LRU cache for platform-ID lookups
// with time-based expiration and version-based invalidation to prevent stale data.
type userCache struct {
	lru *expirable.LRU[string, *cachedUserEntry]
}

func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](size, nil, ttl),
	}
}

// Get retrieves a user from the cache. Entries written by an older schema
// version are dropped rather than returned.
func (c *userCache) Get(platform, platformID string) (*domain.User, bool) {
	key := platform + ":" + platformID
	entry, found := c.lru.Get(key)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return nil, false
	}

	return entry.User, true
}

// Set stores a user in the cache with current schema version.
func (c *userCache) Set(platform, platformID string, user *domain.User) {
	key := platform + ":" + platformID
	entry := &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     user,
		CachedAt: time.Now(),
	}
	c.lru.Add(key, entry)
}

// Invalidate removes a user from the cache.
func (c *userCache) Invalidate(platform, platformID string) {
	key := platform + ":" + platformID
	c.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (c *userCache) Clear() {
	c.lru.Purge()
}
