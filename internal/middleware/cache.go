package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aquarhone/aquabook/internal/config"
)

// cachedResponse is the envelope stored in Redis: enough to replay the
// response exactly as the handler produced it.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// captureWriter duplicates the response body into a buffer (up to
// limit bytes) while forwarding to the client.
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
	if cw.size < cw.limit {
		remain := cw.limit - cw.size
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewRedisCache caches successful GET responses in Redis for the
// configured TTL. Status and headers are stored alongside the body so
// replayed responses are byte-identical. Disabled (pass-through) when
// cfg.Enabled is false or rdb is nil; Redis errors fail open.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	// Zero or negative means no size cap on cached bodies.
	limit := int64(cfg.MaxBodyBytes)
	if limit <= 0 {
		limit = math.MaxInt64
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					h := c.Response().Header()
					for k, vs := range cached.Header {
						// Headers set by earlier middleware (CORS) are
						// already on the response; adding the stored
						// copy would emit them twice.
						if k == echo.HeaderContentLength || len(h.Values(k)) > 0 {
							continue
						}
						for _, v := range vs {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(cached.Status, h.Get(echo.HeaderContentType), cached.Body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          limit,
			}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}

			// Only cache complete, successful responses.
			if cw.status == http.StatusOK && cw.size <= cw.limit {
				cached := cachedResponse{
					Status: cw.status,
					Header: c.Response().Header().Clone(),
					Body:   cw.buf.Bytes(),
				}
				if raw, err := json.Marshal(cached); err == nil {
					_ = rdb.Set(ctx, key, raw, ttl).Err()
				}
			}
			return nil
		}
	}
}

// DropCachePrefix removes every cache entry under prefix. Catalog
// mutations call this so stale activity listings never outlive a write
// by more than one round trip.
func DropCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) {
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}
