package domain

import "time"

// DeviceType classifies the kind of client a session belongs to.
type DeviceType string

const (
	DeviceTypeMobile  DeviceType = "mobile"
	DeviceTypeTablet  DeviceType = "tablet"
	DeviceTypeDesktop DeviceType = "desktop"
	DeviceTypeOther   DeviceType = "other"
)

// ParseDeviceType normalizes a client-supplied device type string. Unknown
// values fold into DeviceTypeOther rather than failing registration.
func ParseDeviceType(s string) DeviceType {
	switch DeviceType(s) {
	case DeviceTypeMobile, DeviceTypeTablet, DeviceTypeDesktop:
		return DeviceType(s)
	default:
		return DeviceTypeOther
	}
}

// DeviceInfo is the client-supplied description of the device registering
// a session. DeviceID is the only required field; it must be stable across
// app launches on the same installation.
type DeviceInfo struct {
	DeviceID   string     `json:"device_id"`
	DeviceName string     `json:"device_name,omitempty"`
	DeviceType DeviceType `json:"device_type,omitempty"`
	OS         string     `json:"os,omitempty"`
	Browser    string     `json:"browser,omitempty"`
	IP         string     `json:"ip,omitempty"`
	Location   string     `json:"location,omitempty"`
}

// DeviceSession binds a user, a device, and the token pair currently
// authorizing that device. At most one row exists per (UserID, DeviceID);
// re-registering the same device replaces the tokens in place.
//
// Token columns hold deterministic SHA-256 fingerprints of the issued
// values, never the raw secrets. Revoking a session clears both
// fingerprints and flips Active in the same statement, so a reader can
// never observe a half-revoked record.
type DeviceSession struct {
	ID     string
	UserID string

	DeviceID   string
	DeviceName string
	DeviceType DeviceType
	DeviceOS   string
	Browser    string
	IP         string
	Location   string

	AccessTokenHash  string
	RefreshTokenHash string

	// RefreshExpiresAt is set once at creation (now + refresh TTL) and is
	// never moved by refreshes.
	RefreshExpiresAt time.Time

	Active       bool
	LastActiveAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the session's refresh window has closed.
func (s DeviceSession) Expired(now time.Time) bool {
	return now.After(s.RefreshExpiresAt)
}
