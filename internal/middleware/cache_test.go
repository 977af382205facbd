package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarhone/aquabook/internal/config"
)

const testOrigin = "http://localhost:3000"

func newCachedServer(t *testing.T, cfg config.CacheConfig) (*echo.Echo, *redis.Client, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hits := 0
	e := echo.New()
	e.Use(CORS(testOrigin))
	e.Use(NewRedisCache(cfg, rdb))
	e.GET("/api/activities", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"items": []string{"kayak"}})
	})
	e.POST("/api/activities", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusCreated, echo.Map{"id": 1})
	})
	return e, rdb, &hits
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestCacheReplayServesStoredBody(t *testing.T) {
	e, _, hits := newCachedServer(t, cacheCfg())

	first := get(e, "/api/activities")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := get(e, "/api/activities")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *hits, "handler must not run on a hit")
}

func TestCacheReplayKeepsSingleCORSHeaderSet(t *testing.T) {
	e, _, _ := newCachedServer(t, cacheCfg())

	first := get(e, "/api/activities")
	require.Equal(t, []string{testOrigin}, first.Header().Values("Access-Control-Allow-Origin"))

	// the replayed response must not stack the stored CORS headers on
	// top of the ones the CORS middleware just set
	second := get(e, "/api/activities")
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	for _, k := range []string{
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Methods",
		"Access-Control-Allow-Headers",
		"Access-Control-Allow-Credentials",
	} {
		assert.Len(t, second.Header().Values(k), 1, k)
	}
	assert.Equal(t, testOrigin, second.Header().Get("Access-Control-Allow-Origin"))
}

func TestCacheZeroMaxBodyBytesMeansUnlimited(t *testing.T) {
	cfg := cacheCfg()
	cfg.MaxBodyBytes = 0
	e, _, hits := newCachedServer(t, cfg)

	get(e, "/api/activities")
	second := get(e, "/api/activities")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, *hits)
}

func TestCacheSkipsNonGET(t *testing.T) {
	e, _, hits := newCachedServer(t, cacheCfg())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/activities", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, *hits)
}

func TestDropCachePrefix(t *testing.T) {
	e, rdb, hits := newCachedServer(t, cacheCfg())

	get(e, "/api/activities")
	get(e, "/api/activities")
	require.Equal(t, 1, *hits)

	DropCachePrefix(context.Background(), rdb, "test:cache")

	third := get(e, "/api/activities")
	assert.Empty(t, third.Header().Get("X-Cache"))
	assert.Equal(t, 2, *hits)
}
