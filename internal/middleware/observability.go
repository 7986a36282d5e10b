package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/observability"
)

const apiPrefix = "/api/"

// Observability records Prometheus metrics and one structured log line per API request.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), apiPrefix) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		route := routeTemplate(c)
		method := c.Method()
		status := responseStatus(c, err)
		code := strconv.Itoa(status)

		observability.HTTPRequests().WithLabelValues(method, route, code).Inc()
		observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.HTTPErrors().WithLabelValues(method, route, code).Inc()
		}

		event := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		}

		event = event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed)
		if userID, ok := c.Locals("user_id").(uint); ok {
			event = event.Uint("user_id", userID)
		}
		if role, ok := c.Locals("user_role").(string); ok && role != "" {
			event = event.Str("role", role)
		}
		event.Msg("request handled")

		return err
	}
}

// responseStatus reports the status the error handler will write when the
// chain returned an error the response does not reflect yet.
func responseStatus(c *fiber.Ctx, err error) int {
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}

func routeTemplate(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
		return route.Path
	}
	return "unmatched"
}
