package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/observability"
)

const observedPrefix = "/api/"

// Observability records request metrics and one structured log line per API call.
// Errors are rendered here through the app's error handler so the recorded status
// matches what the client receives.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()
	base := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), observedPrefix) {
			return c.Next()
		}

		start := time.Now()
		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()

		observability.HTTPRequests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())

		event := base.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = base.Error()
		case status >= fiber.StatusBadRequest:
			event = base.Warn()
		}
		event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", c.IP()).
			Msg("request completed")

		return nil
	}
}

// routeTemplate keeps the label set bounded: unmatched paths share one label.
func routeTemplate(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
