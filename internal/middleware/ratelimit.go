package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/courtsite/venue-slot-booking/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by Redis.
// Each (client IP, route) key may issue cfg.Limit requests per
// cfg.Window; excess requests receive 429 with a Retry-After header.
// The limiter runs before authentication, so keys are per-client
// rather than per-user.
// When the limiter is disabled or Redis is unavailable, requests pass
// through untouched — availability of the booking API is preferred
// over throttling accuracy.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg.Prefix, c)
            ctx := c.Request().Context()

            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                // Redis down mid-flight: let the request through.
                return next(c)
            }
            if n == 1 {
                _ = rdb.Expire(ctx, key, cfg.Window).Err()
            }
            if n > int64(cfg.Limit) {
                ttl, _ := rdb.TTL(ctx, key).Result()
                if ttl < 0 {
                    ttl = cfg.Window
                }
                c.Response().Header().Set("Retry-After", strconv.Itoa(int(ttl/time.Second)+1))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
            }
            return next(c)
        }
    }
}

func rateKey(prefix string, c echo.Context) string {
    return fmt.Sprintf("%s:%s:%s %s", prefix, c.RealIP(), c.Request().Method, c.Path())
}
