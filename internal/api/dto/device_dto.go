package dto

import "time"

// RegisterDeviceRequest payload.
type RegisterDeviceRequest struct {
	StaffID  string `json:"staff_id" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=iOS Android"`
	Token    string `json:"token" validate:"required,max=512"`
}

// DeviceResponse is a registered device.
type DeviceResponse struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	Platform   string    `json:"platform"`
	Token      string    `json:"token"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
