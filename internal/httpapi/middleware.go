package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/niche-finder/internal/metrics"
	"github.com/niche-finder/pkg/logger"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// RequestLogger returns middleware that tags each request with an id,
// attaches a request-scoped logger to its context, logs the outcome and
// records HTTP metrics.
func RequestLogger(base *logger.Logger, reg *metrics.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, rid)

			// Attach request-scoped logger
			log := base.WithRequestID(rid)
			c.SetRequest(req.WithContext(log.Into(req.Context())))

			err := next(c)
			if err != nil {
				// Let echo write the response so the status below is final
				c.Error(err)
			}

			status := c.Response().Status
			duration := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			reg.ObserveHTTP(req.Method, route, status, duration)

			event := log.Info()
			msg := "http request served"
			if status >= 500 || err != nil {
				event = log.Error().Err(err)
				msg = "http request failed"
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Int("status", status).
				Dur("duration", duration).
				Msg(msg)

			return nil
		}
	}
}
