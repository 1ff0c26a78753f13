package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated caller carries the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Admin {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}
