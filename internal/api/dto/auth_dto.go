package dto

import "time"

// LoginRequest payload for POST /admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns JWT token info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
