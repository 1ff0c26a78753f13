package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-registry/internal/config"
)

// ErrLoginDisabled is returned when no admin password is configured.
var ErrLoginDisabled = errors.New("admin login not configured")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// Credentials holds the shared admin secrets.
type Credentials struct {
	passwordHash string
	apiKey       string
}

// NewCredentials prefers ADMIN_PASSWORD_HASH and otherwise hashes the plain
// ADMIN_WEB_PASSWORD once at startup.
func NewCredentials(cfg config.AdminConfig, cost int) (*Credentials, error) {
	creds := &Credentials{
		passwordHash: strings.TrimSpace(cfg.PasswordHash),
		apiKey:       strings.TrimSpace(cfg.APIKey),
	}
	if creds.passwordHash == "" && strings.TrimSpace(cfg.Password) != "" {
		if cost < bcrypt.MinCost {
			cost = bcrypt.DefaultCost
		}
		hashed, err := HashPassword(strings.TrimSpace(cfg.Password), cost)
		if err != nil {
			return nil, err
		}
		creds.passwordHash = hashed
	}
	return creds, nil
}

// VerifyPassword checks plain against the admin password.
func (c *Credentials) VerifyPassword(plain string) error {
	if c == nil || c.passwordHash == "" {
		return ErrLoginDisabled
	}
	return ComparePassword(c.passwordHash, plain)
}

// ValidAPIKey reports whether key equals the configured API key.
func (c *Credentials) ValidAPIKey(key string) bool {
	if c == nil || c.apiKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.apiKey), []byte(key)) == 1
}
