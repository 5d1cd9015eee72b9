package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/internal/auth/store/drivers/sqlite"
	"github.com/driftwave/auth/pkg/authsdk"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := service.NewTokenIssuer(testSecret, "driftwave-auth", 15*time.Minute, 0)
	require.NoError(t, err)

	sessions := &service.SessionService{Store: st, Tokens: tokens}
	users := &service.UserService{Store: st, Sessions: sessions}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(tokens.Verifier, "test", st, logger)
	router.SessionService = sessions
	router.UserService = users
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username, deviceID string) authsdk.TokenResponse {
	t.Helper()

	resp := postJSON(t, srv, "/v1/auth/register", authsdk.RegisterRequest{
		Username: username,
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv, "/v1/auth/login", authsdk.LoginRequest{
		Username: username,
		Password: "hunter2hunter2",
		Device:   authsdk.DeviceInfo{DeviceID: deviceID, DeviceType: "mobile"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[authsdk.TokenResponse](t, resp)
}

func authedRequest(t *testing.T, srv *httptest.Server, method, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/v1/auth/register", authsdk.RegisterRequest{
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeBody[authsdk.RegisterResponse](t, resp)
	require.Equal(t, "alice", out.Username)
	require.NotEmpty(t, out.UserID)

	// Duplicate username conflicts.
	resp = postJSON(t, srv, "/v1/auth/register", authsdk.RegisterRequest{
		Username: "alice",
		Password: "other-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	wire := decodeBody[authsdk.ErrorResponse](t, resp)
	require.Equal(t, authsdk.ErrorCodeUsernameTaken, wire.Error)

	// Missing fields are rejected.
	resp = postJSON(t, srv, "/v1/auth/register", authsdk.RegisterRequest{Username: "bob"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tokens := registerAndLogin(t, srv, "alice", "phone")
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, "Bearer", tokens.TokenType)
	require.Equal(t, int((15 * time.Minute).Seconds()), tokens.ExpiresIn)

	// Wrong password is a 401 with the generic credentials error.
	resp := postJSON(t, srv, "/v1/auth/login", authsdk.LoginRequest{
		Username: "alice",
		Password: "wrong",
		Device:   authsdk.DeviceInfo{DeviceID: "phone"},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wire := decodeBody[authsdk.ErrorResponse](t, resp)
	require.Equal(t, authsdk.ErrorCodeInvalidCredentials, wire.Error)

	// Missing device_id is a 400.
	resp = postJSON(t, srv, "/v1/auth/login", authsdk.LoginRequest{
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshEndpoint(t *testing.T) {
	srv := newTestServer(t)
	tokens := registerAndLogin(t, srv, "alice", "phone")

	resp := postJSON(t, srv, "/v1/auth/refresh", authsdk.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	out := decodeBody[authsdk.RefreshResponse](t, resp)
	require.NotEmpty(t, out.AccessToken)

	// Unknown refresh token maps to invalid_grant.
	resp = postJSON(t, srv, "/v1/auth/refresh", authsdk.RefreshRequest{
		RefreshToken: "bogus",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wire := decodeBody[authsdk.ErrorResponse](t, resp)
	require.Equal(t, authsdk.ErrorCodeInvalidGrant, wire.Error)
}

func TestDevicesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	phone := registerAndLogin(t, srv, "alice", "phone")

	// Second device for the same account.
	resp := postJSON(t, srv, "/v1/auth/login", authsdk.LoginRequest{
		Username: "alice",
		Password: "hunter2hunter2",
		Device:   authsdk.DeviceInfo{DeviceID: "laptop", DeviceType: "desktop"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	laptop := decodeBody[authsdk.TokenResponse](t, resp)

	// Both devices are listed, laptop first (most recently active).
	resp = authedRequest(t, srv, http.MethodGet, "/v1/auth/devices", phone.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[authsdk.DevicesResponse](t, resp)
	require.Len(t, list.Devices, 2)
	require.Equal(t, "laptop", list.Devices[0].DeviceID)

	// The laptop revokes everything else.
	resp = authedRequest(t, srv, http.MethodPost, "/v1/auth/devices/revoke-others", laptop.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	revoked := decodeBody[authsdk.RevokeOthersResponse](t, resp)
	require.EqualValues(t, 1, revoked.Revoked)

	// The phone's refresh token is dead.
	resp = postJSON(t, srv, "/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: phone.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// But its unexpired access token still passes bearer verification.
	resp = authedRequest(t, srv, http.MethodGet, "/v1/auth/devices", phone.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Laptop revokes itself.
	resp = authedRequest(t, srv, http.MethodDelete, "/v1/auth/devices/laptop", laptop.AccessToken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv, "/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: laptop.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDevicesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/auth/devices")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")
	resp.Body.Close()

	resp = authedRequest(t, srv, http.MethodGet, "/v1/auth/devices", "garbage-token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wire := decodeBody[authsdk.ErrorResponse](t, resp)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, wire.Error)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	live := decodeBody[authsdk.HealthResponse](t, resp)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ready := decodeBody[authsdk.HealthResponse](t, resp)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestMalformedJSONBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/auth/login", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	wire := decodeBody[authsdk.ErrorResponse](t, resp)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, wire.Error)

	resp, err = http.Post(srv.URL+"/v1/auth/login", "text/plain", bytes.NewReader([]byte("hi")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
