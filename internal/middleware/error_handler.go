package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-vault/internal/apperrors"
	"media-vault/internal/utils"
)

// NewErrorHandler renders every error the handler chain returns as the
// JSON error envelope. Underlying causes are attached as details only in
// development.
func NewErrorHandler(log *zap.SugaredLogger, dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apperrors.Error
		if !errors.As(err, &ae) {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				ae = &apperrors.Error{
					Code:    apperrors.CodeForStatus(fe.Code),
					Status:  fe.Code,
					Message: fe.Message,
				}
			} else {
				ae = apperrors.Internal("An unexpected error occurred", err)
			}
		}

		if ae.Status >= 500 {
			log.Errorw("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"requestId", GetRequestID(c),
				"err", err,
			)
		}

		details := ae.Details
		if details == nil && dev && ae.Err != nil {
			details = ae.Err.Error()
		}
		return utils.JSONError(c, ae.Status, ae.Code, ae.Message, details)
	}
}
