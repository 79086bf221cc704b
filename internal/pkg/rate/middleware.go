package rate

import (
	"strconv"

	"myapi/internal/pkg/errorsx"

	"github.com/labstack/echo/v4"
)

// KeyFunc extracts the rate limit key from a request
type KeyFunc func(c echo.Context) string

// IPKeyFunc keys requests by scope and client IP
func IPKeyFunc(scope string) KeyFunc {
	return func(c echo.Context) string {
		return scope + ":" + c.RealIP()
	}
}

// Middleware rejects requests over the limit with a RateLimited error
// and reports the quota in X-RateLimit-* headers
func Middleware(limiter Limiter, keyFunc KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.Allow(c.Request().Context(), keyFunc(c))
			if err != nil {
				return err
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				seconds := int64(result.RetryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				h.Set("Retry-After", strconv.FormatInt(seconds, 10))
				return errorsx.RateLimited("too many requests, retry later")
			}
			return next(c)
		}
	}
}
