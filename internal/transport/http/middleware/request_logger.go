// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Server errors are logged at warn
// level; the person id is included once Actor has run.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("http")
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

		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}
		fields := []any{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", reqID,
		}
		if id := PersonID(c); id != "" {
			fields = append(fields, "person_id", id)
		}

		if status >= fiber.StatusInternalServerError {
			log.Warnw("http", fields...)
		} else {
			log.Infow("http", fields...)
		}
		return err
	}
}
