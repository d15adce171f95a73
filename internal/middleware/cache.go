package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cmarinek/red-square-broadcast/internal/config"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
)

// captureWriter forwards the response to the client and keeps a copy of
// the body up to limit bytes.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cacheKey hashes route and raw query under the configured prefix. Only
// public routes are cached so the user is not part of the key.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte("route:" + c.Path() + ":q:" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache replays cached 200 responses of the configured methods,
// headers included, and marks them with X-Cache. It is a no-op without
// Redis. Bodies larger than MaxBodyBytes are never stored.
func NewRedisCache(log *slog.Logger, cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			} else if err != redis.Nil {
				log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
				log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
			}
			return nil
		}
	}
}
