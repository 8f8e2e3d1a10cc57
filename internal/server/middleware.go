package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/UnknownOlympus/hestia/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID propagates the caller's request id or assigns a new one.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDHeader, id)
		c.Locals(requestIDKey, id)

		return c.Next()
	}
}

// observe logs every request and records its status and duration.
func observe(log *slog.Logger, metrics *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method()).Observe(elapsed.Seconds())

		log.DebugContext(c.UserContext(), "Request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", elapsed.String(),
			"request_id", c.Locals(requestIDKey),
		)

		return nil
	}
}
