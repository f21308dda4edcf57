package ratelimit

import "time"

// Config bounds how fast a single caller may hit the allocation endpoint.
// Zero values disable the corresponding window.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// RateLimiter throttles allocation callers. Keys identify the caller, not
// the rule: a burst against one entity type must not starve the others.
type RateLimiter interface {
	Allow(key string, config Config) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
