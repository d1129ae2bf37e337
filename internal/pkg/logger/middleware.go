package logger

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// ZapEchoMiddleware creates request-logging middleware for Echo
func ZapEchoMiddleware(l *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())

			start := time.Now()
			path := c.Request().URL.Path
			raw := c.Request().URL.RawQuery

			err := next(c)

			latency := time.Since(start)
			statusCode := c.Response().Status
			clientIP := c.RealIP()
			method := c.Request().Method

			if raw != "" {
				path = path + "?" + raw
			}

			principal := "anonymous"
			if v := c.Get("principal_id"); v != nil {
				principal = fmt.Sprintf("%v", v)
			}

			if txn != nil {
				txn.AddAttribute("principal_id", principal)
				txn.AddAttribute("response_time_ms", latency.Milliseconds())
				if err != nil {
					txn.NoticeError(err)
				}
			}

			fields := []Field{
				String("method", method),
				String("path", path),
				Int("status", statusCode),
				String("client_ip", clientIP),
				String("principal_id", principal),
				Duration("latency", latency),
			}
			if err != nil {
				fields = append(fields, Err(err))
				l.Error("HTTP request", fields...)
				return err
			}

			switch {
			case statusCode >= 500:
				l.Error("HTTP request", fields...)
			case statusCode >= 400:
				l.Warn("HTTP request", fields...)
			default:
				l.Info("HTTP request", fields...)
			}

			return nil
		}
	}
}
