package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/auth"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// AdminSubject is the JWT subject issued to the shared admin login.
const AdminSubject = "admin"

// AuthService exchanges the admin password for a bearer token.
type AuthService struct {
	tokens *auth.TokenManager
	creds  *auth.Credentials
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(tokens *auth.TokenManager, creds *auth.Credentials, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{tokens: tokens, creds: creds, logger: logger}
}

// LoginResult is an issued admin token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Login verifies the admin password and issues a token.
func (s *AuthService) Login(_ context.Context, password string) (*LoginResult, error) {
	if strings.TrimSpace(password) == "" {
		return nil, apperrors.NewValidationError("password is required", map[string]any{"field": "password"})
	}
	if err := s.creds.VerifyPassword(password); err != nil {
		if errors.Is(err, auth.ErrLoginDisabled) {
			s.logger.Warn("admin login attempted but no password is configured")
			return nil, apperrors.NewForbidden("admin login disabled")
		}
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(AdminSubject)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}
