// ratelimit.go implements a per-IP rate limiter backed by Redis, using a
// fixed-window counter (INCR + EXPIRE). Designed for the credential
// endpoints (login, register) where brute-force protection matters most.
// Keeping the counters in Redis means limits survive process restarts and
// are shared when more than one replica runs.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window duration. Returns 429 when exceeded.
//
// Counter keys are "ratelimit:<route>:<ip>". The first request in a window
// creates the key with an expiry of the window length; the window is fixed,
// not sliding, which is accurate enough for abuse protection and needs a
// single round-trip per request.
//
// If Redis is unreachable the request is allowed through: availability of
// login beats strictness of the limiter, and the failure is logged.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())

			pipe := rdb.TxPipeline()
			incr := pipe.Incr(ctx, key)
			// NX so a concurrent INCR never pushes the expiry forward.
			pipe.ExpireNX(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("key", key),
					slog.Any("error", err),
				)
				return next(c)
			}

			if incr.Val() > int64(maxRequests) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
