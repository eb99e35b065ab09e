package middleware

import (
	"errors"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count, latency and in-flight gauge per route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := metrics.TrackInFlight()
		defer done()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Method(), path, status, time.Since(start))
		return err
	}
}
