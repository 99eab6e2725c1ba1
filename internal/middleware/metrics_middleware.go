package middleware

import (
	"strconv"
	"time"

	"go-pos-inventory/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// route pattern such as /api/products/:id, never the raw path
		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
