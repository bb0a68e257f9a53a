package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"media-vault/internal/apperrors"
	"media-vault/internal/auth"
)

const (
	localUserID    = "userID"
	localUserEmail = "userEmail"
)

// RequireAuth verifies the bearer token and stashes the caller's identity
// in the request locals.
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperrors.Unauthorized("Missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.Unauthorized("Invalid authorization header")
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return apperrors.Unauthorized("Token expired")
			}
			return apperrors.Unauthorized("Invalid token")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUserEmail, claims.Email)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(localUserEmail).(string)
	return email
}
