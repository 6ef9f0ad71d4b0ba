// Package cache provides a Redis-backed cache of resolved link hosts.
// Duplicate redirect URLs across feed pages resolve from cache instead
// of re-walking the redirect chain.
package cache

import (
	"time"
)

// Entry represents one cached link resolution.
type Entry struct {
	// Host is the resolved destination host.
	Host string `json:"host"`

	// CachedAt is when the resolution was cached.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the cached resolution becomes stale.
	Expires time.Time `json:"expires"`
}

// NewEntry creates a cache entry for a resolved host with the given TTL.
func NewEntry(host string, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Host:     host,
		CachedAt: now,
		Expires:  now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
