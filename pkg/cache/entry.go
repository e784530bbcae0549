// Package cache provides collection page caching with a Redis backend.
package cache

import (
	"time"
)

// PageEntry represents a cached collection page response.
type PageEntry struct {
	// Data is the raw response body.
	Data []byte `json:"data"`

	// CachedAt is when we cached this response.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the cache entry becomes stale.
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the cache entry has expired.
func (e *PageEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *PageEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
