package utils

import "github.com/gofiber/fiber/v2"

// ErrorInfo is the wire shape of every error the API returns. Details is
// null unless the failure carries structured context, e.g. field errors.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type ErrorEnvelope struct {
	Error ErrorInfo `json:"error"`
}

func JSON(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(payload)
}

func JSONError(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(ErrorEnvelope{Error: ErrorInfo{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
