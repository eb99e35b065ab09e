// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger writes one access log line per request. Server errors are
// logged at warn level so they stand out next to normal traffic.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("access")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		kv := []interface{}{
			"method", c.Method(),
			"route", c.Route().Path,
			"path", c.OriginalURL(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", requestID(c),
		}
		if p, ok := PrincipalFrom(c); ok {
			kv = append(kv, "user_id", p.ID, "role", p.Role)
		}
		if err != nil {
			kv = append(kv, "error", err)
		}

		if status >= fiber.StatusInternalServerError {
			log.Warnw("request served with server error", kv...)
		} else {
			log.Infow("request served", kv...)
		}
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
