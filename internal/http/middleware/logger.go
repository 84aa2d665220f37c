package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"filerepo/internal/logger"
)

// TenantIDParam is the route parameter carrying the tenant id.
const TenantIDParam = "tenantId"

// Logger is a middleware that logs each HTTP request as one structured entry.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
// - tenant_id (when the route carries one)
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request; the error is rendered here so status is final
		err := c.Next()
		if err != nil {
			renderError(c, err)
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Method()),
			// Use only the path segment (no query string)
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if tid := c.Params(TenantIDParam); tid != "" {
			fields = append(fields, zap.String("tenant_id", tid))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		log.Info("http_request", fields...)

		return nil
	}
}

// renderError runs the app's ErrorHandler so that middleware observing the
// response sees the status the client will get.
func renderError(c *fiber.Ctx, err error) {
	if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}

// LoggerWithWriter writes the access log as JSON lines to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, loc))
}
