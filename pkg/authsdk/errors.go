package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/driftwave/auth/pkg/httpx"
)

// Error codes shared by the server and the SDK. The refresh endpoint reuses
// the OAuth2-style invalid_grant family so clients built on generic OAuth2
// tooling behave sensibly against it.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidGrant       = "invalid_grant"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeUsernameTaken      = "username_taken"
	ErrorCodeServerError        = "server_error"
)

// AuthError is the wire error shape: `{"error": code, "error_description":
// text}`. It implements error so the SDK can return it directly, and the
// server handlers use WriteError to emit it.
type AuthError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this AuthError to an HTTP response writer.
func (e *AuthError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &AuthError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidJSONBody is returned when the request body is not valid JSON.
	ErrInvalidJSONBody = &AuthError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "request body must be valid JSON",
	}

	// ErrInvalidContentType is returned for non-JSON request bodies.
	ErrInvalidContentType = &AuthError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content type must be application/json",
	}

	// ErrInvalidCredentials is returned when login fails. Unknown usernames
	// and wrong passwords produce the same response.
	ErrInvalidCredentials = &AuthError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrSessionNotFound is returned when a refresh token does not resolve
	// to an active session (unknown, revoked, or replaced).
	ErrSessionNotFound = &AuthError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "session not found",
	}

	// ErrSessionExpired is returned when the session's refresh window has
	// closed; the device must log in again.
	ErrSessionExpired = &AuthError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "session expired",
	}

	// ErrInvalidToken is returned when a bearer access token fails
	// verification.
	ErrInvalidToken = &AuthError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is invalid or expired",
	}

	// ErrUsernameTaken is returned when registration hits an existing
	// username.
	ErrUsernameTaken = &AuthError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUsernameTaken,
		Description: "username is already taken",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &AuthError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
