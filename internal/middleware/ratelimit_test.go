package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/courtsite/venue-slot-booking/internal/config"
)

func TestRateKey_PerClientAndRoute(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/venues/1/availability", nil)
    req.Header.Set("X-Real-IP", "203.0.113.9")
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/venues/:id/availability")

    key := rateKey("rl", c)
    assert.Equal(t, "rl:203.0.113.9:GET /v1/venues/:id/availability", key)

    // The limiter runs before authentication; a user_id set later in
    // the chain must not change the key.
    c.Set("user_id", "42")
    assert.Equal(t, key, rateKey("rl", c))
}

func TestRateLimit_PassThroughWhenDisabled(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    cases := []config.RateLimitConfig{
        {Enabled: false, Limit: 1, Window: time.Minute, Prefix: "rl"},
        {Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}, // nil client
    }
    for _, cfg := range cases {
        called := false
        mw := RateLimit(cfg, nil)
        err := mw(func(c echo.Context) error {
            called = true
            return c.String(http.StatusOK, "ok")
        })(c)
        require.NoError(t, err)
        assert.True(t, called)
    }
}
