package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Session is an authenticated device session with automatic access-token
// refresh. The refresh token never changes for the life of the session;
// only the access token is replaced.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	deviceID     string
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates a Session from a login response.
func newSession(client *SDKClient, deviceID string, tokens *TokenResponse) *Session {
	expiresAt := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	expiresAt = expiresAt.Add(-30 * time.Second) // refresh a little early

	return &Session{
		client:       client,
		deviceID:     deviceID,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		expiresAt:    expiresAt,
	}
}

// DeviceID returns the device this session was registered for.
func (s *Session) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceID
}

// RefreshToken returns the opaque refresh token, e.g. for persisting across
// app restarts.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// AccessToken returns a valid access token, refreshing first if the current
// one is about to expire.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.getValidToken(ctx)
}

// ListDevices returns the account's active devices, most recently active
// first.
func (s *Session) ListDevices(ctx context.Context) ([]Device, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/devices", nil)
	if err != nil {
		return nil, err
	}

	var out DevicesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Devices, nil
}

// RevokeDevice revokes one of the account's device sessions. Revoking a
// device that has no session succeeds.
func (s *Session) RevokeDevice(ctx context.Context, deviceID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/auth/devices/"+url.PathEscape(deviceID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RevokeOtherDevices revokes every device session on the account except
// this one. Returns how many sessions were revoked.
func (s *Session) RevokeOtherDevices(ctx context.Context) (int64, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/devices/revoke-others", nil)
	if err != nil {
		return 0, err
	}

	var out RevokeOthersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Revoked, nil
}

// Logout revokes this session's own device.
func (s *Session) Logout(ctx context.Context) error {
	return s.RevokeDevice(ctx, s.DeviceID())
}

// getValidToken returns a valid access token, refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("session has no refresh token")
	}

	refreshed, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh access token: %w", err)
	}

	s.accessToken = refreshed.AccessToken
	s.expiresAt = time.Now().
		Add(time.Duration(refreshed.ExpiresIn) * time.Second).
		Add(-30 * time.Second)

	return s.accessToken, nil
}
