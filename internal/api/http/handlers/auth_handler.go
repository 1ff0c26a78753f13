package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/service"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// AuthHandler issues admin tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login POST /admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt}})
}
