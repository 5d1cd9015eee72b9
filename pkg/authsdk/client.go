package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the driftwave auth service. It provides the
// unauthenticated operations (register, login, refresh, health) and creates
// authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account.
func (c *SDKClient) Register(ctx context.Context, username, password string) (*RegisterResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/register", RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login verifies credentials, registers the device, and returns an
// authenticated Session holding the token pair.
func (c *SDKClient) Login(ctx context.Context, username, password string, device DeviceInfo) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{
		Username: username,
		Password: password,
		Device:   device,
	})
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, device.DeviceID, &tokens), nil
}

// Refresh exchanges a refresh token for a new access token. Most callers
// want Session, which does this automatically; Refresh is for clients that
// manage tokens themselves.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewSessionFromTokens rebuilds a Session from stored tokens, e.g. after an
// app restart. The session still auto-refreshes when the access token
// expires.
func (c *SDKClient) NewSessionFromTokens(deviceID, accessToken, refreshToken string, expiresIn int) *Session {
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)
	expiresAt = expiresAt.Add(-30 * time.Second) // refresh a little early

	return &Session{
		client:       c,
		deviceID:     deviceID,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
	}
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready to take traffic.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *SDKClient) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	})
}
