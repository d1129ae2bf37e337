package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nagarseva/kiosk/internal/pkg/ratelimit"
	"github.com/nagarseva/kiosk/internal/utils"
)

// RateLimiterMiddleware guards a route group with the given limiter action.
// The identity is the authenticated principal when present, the client IP
// otherwise. Per-mobile limits are applied again inside the auth usecase where
// the mobile number is known; this layer only throttles abusive connections.
func RateLimiterMiddleware(limiter ratelimit.Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := c.RealIP()
			if principalID := c.Get("principal_id"); principalID != nil {
				if s, ok := principalID.(string); ok && s != "" {
					identity = s
				}
			}

			res, err := limiter.Allow(c.Request().Context(), action, identity)
			if err != nil {
				return utils.ErrorResponseHandler(c, http.StatusInternalServerError, "Rate limiter error")
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int64(res.RetryAfter / time.Second)
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				return utils.ErrorResponseHandler(c, http.StatusTooManyRequests, "Rate limit exceeded")
			}

			return next(c)
		}
	}
}
