package domain

import "time"

// Platform identifies a push-capable client OS.
type Platform string

const (
	PlatformIOS     Platform = "iOS"
	PlatformAndroid Platform = "Android"
)

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// Device holds a push token registered for a staff member.
type Device struct {
	ID         string
	StaffID    string
	Platform   Platform
	Token      string
	LastSeenAt time.Time
}
