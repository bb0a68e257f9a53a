package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"media-vault/internal/apperrors"
	"media-vault/internal/models"
	"media-vault/internal/utils"
)

// AuthService is the slice of the service layer the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if fe := utils.ValidateStruct(req); fe != nil {
		return apperrors.Validation("Invalid request data", fe)
	}

	resp, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, resp)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if fe := utils.ValidateStruct(req); fe != nil {
		return apperrors.Validation("Invalid request data", fe)
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, resp)
}
