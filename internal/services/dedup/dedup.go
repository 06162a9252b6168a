package dedup

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache remembers message IDs for a fixed window so redelivered webhook
// events are not relayed twice.
type Cache struct {
	cache *cache.Cache
}

// NewCache creates a dedup cache. A window <= 0 returns nil, which never
// reports duplicates.
func NewCache(window time.Duration) *Cache {
	if window <= 0 {
		return nil
	}
	return &Cache{
		cache: cache.New(window, 2*window),
	}
}

// Seen records messageID and reports whether it was already recorded within
// the window. Empty IDs are never treated as duplicates.
func (c *Cache) Seen(messageID string) bool {
	if c == nil || messageID == "" {
		return false
	}
	// Add fails when the key already exists and has not expired.
	return c.cache.Add(messageID, struct{}{}, cache.DefaultExpiration) != nil
}
