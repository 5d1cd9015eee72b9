package auth_test

import (
	"errors"
	"testing"

	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginAndRefreshFlow covers the happy path: register, log in from a
// device, refresh the access token, and confirm the refresh token survives
// unchanged.
func TestLoginAndRefreshFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	session, err := client.Login(t.Context(), testUsername, testPassword, mobileDevice("phone"))
	require.NoError(t, err)

	refreshBefore := session.RefreshToken()

	refreshed, err := client.Refresh(t.Context(), refreshBefore)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Equal(t, "Bearer", refreshed.TokenType)

	// The refresh token does not rotate.
	require.Equal(t, refreshBefore, session.RefreshToken())

	again, err := client.Refresh(t.Context(), refreshBefore)
	require.NoError(t, err)
	require.NotEmpty(t, again.AccessToken)
}

// TestReLoginReplacesTokens checks that a second login from the same device
// kills the first login's refresh token and keeps a single device entry.
func TestReLoginReplacesTokens(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	first, err := client.Login(t.Context(), testUsername, testPassword, mobileDevice("phone"))
	require.NoError(t, err)

	second, err := client.Login(t.Context(), testUsername, testPassword, mobileDevice("phone"))
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken(), second.RefreshToken())

	_, err = client.Refresh(t.Context(), first.RefreshToken())
	var authErr *authsdk.AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, authsdk.ErrorCodeInvalidGrant, authErr.Code)

	devices, err := second.ListDevices(t.Context())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Equal(t, "phone", devices[0].DeviceID)
}

// TestDeviceManagement exercises the multi-device lifecycle: list ordering,
// selective revocation, and the bulk revoke-others sweep.
func TestDeviceManagement(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	phone, err := client.Login(t.Context(), testUsername, testPassword, mobileDevice("phone"))
	require.NoError(t, err)

	laptop, err := client.Login(t.Context(), testUsername, testPassword, authsdk.DeviceInfo{
		DeviceID:   "laptop",
		DeviceName: "Work Laptop",
		DeviceType: "desktop",
		OS:         "macOS 16",
	})
	require.NoError(t, err)

	// Most recently active device first.
	devices, err := laptop.ListDevices(t.Context())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.Equal(t, "laptop", devices[0].DeviceID)
	require.Equal(t, "phone", devices[1].DeviceID)

	// The laptop revokes every other device.
	n, err := laptop.RevokeOtherDevices(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = client.Refresh(t.Context(), phone.RefreshToken())
	var authErr *authsdk.AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, authsdk.ErrorCodeInvalidGrant, authErr.Code)

	devices, err = laptop.ListDevices(t.Context())
	require.NoError(t, err)
	require.Len(t, devices, 1)

	// Logout revokes the laptop itself; its refresh token dies too.
	require.NoError(t, laptop.Logout(t.Context()))
	_, err = client.Refresh(t.Context(), laptop.RefreshToken())
	require.Error(t, err)

	// The phone can log straight back in after revocation.
	phone2, err := client.Login(t.Context(), testUsername, testPassword, mobileDevice("phone"))
	require.NoError(t, err)
	_, err = client.Refresh(t.Context(), phone2.RefreshToken())
	require.NoError(t, err)
}

// TestInvalidCredentials verifies unknown usernames and wrong passwords are
// indistinguishable on the wire.
func TestInvalidCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	_, errUnknown := client.Login(t.Context(), "nobody", testPassword, mobileDevice("phone"))
	_, errWrong := client.Login(t.Context(), testUsername, "wrong-password", mobileDevice("phone"))

	var unknownErr, wrongErr *authsdk.AuthError
	require.True(t, errors.As(errUnknown, &unknownErr))
	require.True(t, errors.As(errWrong, &wrongErr))
	require.Equal(t, unknownErr.Code, wrongErr.Code)
	require.Equal(t, unknownErr.StatusCode, wrongErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidCredentials, wrongErr.Code)
}

// TestHealthProbes checks the liveness and readiness endpoints.
func TestHealthProbes(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
