package config

import (
	"strings"
	"time"
)

// RateLimitConfig drives the Redis token bucket applied to the auth
// endpoints. Capacity is the burst size; RefillTokens are added every
// RefillInterval. TTL bounds how long idle buckets live in Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, falling back to defaults that allow short bursts
// while keeping credential-stuffing slow.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        strings.EqualFold(getenv("RATE_LIMIT_ENABLED", "true"), "true"),
		Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "10")),
		RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "5")),
		RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "10s")),
		TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "aquabook:rl"),
	}
}
