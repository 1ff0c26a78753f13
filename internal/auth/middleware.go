package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// APIKeyHeader carries the shared device/admin key.
const APIKeyHeader = "X-API-Key"

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Admin   bool
	Method  string
}

// AuthMiddleware accepts an admin bearer token or the API key.
type AuthMiddleware struct {
	tokens *TokenManager
	creds  *Credentials
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, creds *Credentials) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, creds: creds}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if key := c.Get(APIKeyHeader); key != "" {
		if !m.creds.ValidAPIKey(key) {
			return apperrors.NewUnauthorized("invalid api key")
		}
		c.Locals(principalKey, &Principal{Subject: "api-key", Admin: true, Method: "api_key"})
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Subject: claims.Subject, Admin: claims.Admin, Method: "bearer"})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
