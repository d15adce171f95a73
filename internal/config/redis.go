package config

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the cache and rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads REDIS_ADDR, or REDIS_HOST plus REDIS_PORT, along with
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
		TLS:      envBool("REDIS_TLS", false),
	}
}

// NewRedisClient connects and pings Redis. It returns nil when the server
// is unreachable; callers then run without caching and rate limiting.
func NewRedisClient(c RedisConfig) *redis.Client {
	opts := &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
