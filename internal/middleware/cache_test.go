package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	header := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"customers":[]}`)

	encoded, err := encodePayload(http.StatusOK, header, body)
	require.NoError(t, err)

	status, gotHeader, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncatedInput(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/usecase1/vehicles")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/usecase1/vehicles?start=2026-06-01&end=2026-06-04")
	b := key("/usecase1/vehicles?start=2026-07-01&end=2026-07-04")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, key("/usecase1/vehicles?start=2026-06-01&end=2026-06-04"))
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/usecase1/customers", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/usecase1/customers")

	ip := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c)
	route := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c)
	both := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c)

	assert.Contains(t, route, "GET /usecase1/customers")
	assert.NotEqual(t, ip, route)
	assert.Contains(t, both, "ip")
	assert.Contains(t, both, "route")
}
