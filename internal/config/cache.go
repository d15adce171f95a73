package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware. Caching
// is off when Enabled is false or no Redis client is available.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables. Methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
