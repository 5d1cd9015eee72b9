package authsdk

import "time"

// ErrorResponse is the wire error shape, used by the SDK when parsing
// non-2xx responses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful signup.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// DeviceInfo describes the device a login registers. DeviceID is required
// and must be stable across app launches on the same installation.
type DeviceInfo struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name,omitempty"`
	DeviceType string `json:"device_type,omitempty"` // mobile, tablet, desktop, other
	OS         string `json:"os,omitempty"`
	Browser    string `json:"browser,omitempty"`
	Location   string `json:"location,omitempty"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Device   DeviceInfo `json:"device"`
}

// TokenResponse is returned by login: the signed access token plus the
// opaque refresh token the device must keep.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries the new access token. The refresh token does not
// rotate, so it is not echoed back.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// Device is one entry of GET /v1/auth/devices.
type Device struct {
	DeviceID     string    `json:"device_id"`
	DeviceName   string    `json:"device_name,omitempty"`
	DeviceType   string    `json:"device_type"`
	OS           string    `json:"os,omitempty"`
	Browser      string    `json:"browser,omitempty"`
	Location     string    `json:"location,omitempty"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// DevicesResponse is the device list, most recently active first.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// RevokeOthersResponse reports how many sibling sessions a bulk revoke
// deactivated.
type RevokeOthersResponse struct {
	Revoked int64 `json:"revoked"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks holds per-dependency readiness results.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Signer   string `json:"signer,omitempty"`
}
