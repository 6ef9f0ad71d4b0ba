// Package ratelimit tracks the content API request budget shared across
// client instances via Redis and gates requests when the budget runs
// low. It reads the X-RateLimit-Remaining and X-RateLimit-Reset response
// headers.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "newswire:rate_limit:remaining"
	RedisKeyResetTimestamp = "newswire:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "newswire:rate_limit:last_update"
)

// Rate limit response headers of the content API.
const (
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// Thresholds for rate limit decisions.
const (
	// ThresholdCritical blocks all requests when the remaining budget
	// falls below this value.
	ThresholdCritical = 3

	// ThresholdWarning throttles requests when the remaining budget
	// falls below this value.
	ThresholdWarning = 10
)

// throttleDelay is the pause applied per request in the warning band.
const throttleDelay = 500 * time.Millisecond

// State is the current shared request-budget state.
type State struct {
	// Remaining is the number of requests left in the current window,
	// from the X-RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the budget window resets, calculated from the
	// X-RateLimit-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last written.
	LastUpdate time.Time `json:"last_update"`
}

// NeedsBlock returns true if requests must be blocked.
func (s *State) NeedsBlock() bool {
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && !s.NeedsBlock()
}

// TimeUntilReset returns the duration until the budget window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// IsStale returns true if the state data is older than maxAge.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}
