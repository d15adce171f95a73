package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cmarinek/red-square-broadcast/internal/config"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
)

// tokenBucket refills refill_tokens every interval_ms up to capacity and
// takes one token per call. Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per client IP, user and route. Redis
// failures let the request through.
func NewTokenBucket(log *slog.Logger, cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			args := []any{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				log.Warn("rate limit script failed", slog.String("key", key), sl.Err(err))
				return next(c)
			}
			arr, ok := vals.([]any)
			if !ok || len(arr) != 3 {
				log.Warn("unexpected rate limit result", slog.String("key", key), slog.String("result", fmt.Sprint(vals)))
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				secs := retryAfterSeconds(retryMs)
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func retryAfterSeconds(ms int64) int {
	return max(int(math.Ceil(float64(ms)/1000.0)), 0)
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func rateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := UserID(c)
	if uid == "" {
		uid = "anon"
	}
	return strings.Join([]string{prefix, "ip", ip, "user", uid, "route", c.Request().Method + " " + c.Path()}, ":")
}
