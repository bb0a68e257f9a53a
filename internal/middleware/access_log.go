package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-vault/internal/apperrors"
)

// AccessLog writes one line per request. Severity follows the status:
// 5xx logs as error, other failures as warn.
func AccessLog(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the app error handler has not rendered yet
			var ae *apperrors.Error
			var fe *fiber.Error
			switch {
			case errors.As(err, &ae):
				status = ae.Status
			case errors.As(err, &fe):
				status = fe.Code
			default:
				status = fiber.StatusInternalServerError
			}
		}

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
			"requestId", GetRequestID(c),
		}
		switch {
		case status >= 500:
			log.Errorw("request completed", fields...)
		case status >= 400:
			log.Warnw("request completed", fields...)
		default:
			log.Infow("request completed", fields...)
		}
		return err
	}
}
