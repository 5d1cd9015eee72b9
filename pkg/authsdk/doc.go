/*
Package authsdk provides a client SDK for the driftwave authentication
service.

# SDKClient vs Session

The package is organized around two types:

  - SDKClient: unauthenticated operations (register, login, refresh, health)
  - Session: authenticated device-session operations with automatic
    access-token refresh

Create an SDKClient and log in to obtain a Session:

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.Login(ctx, "alice", "password", authsdk.DeviceInfo{
		DeviceID:   "a1b2c3",
		DeviceName: "Alice's Phone",
		DeviceType: "mobile",
	})

Use the Session for device management:

	devices, err := session.ListDevices(ctx)
	err = session.RevokeDevice(ctx, "old-laptop")
	n, err := session.RevokeOtherDevices(ctx)
	err = session.Logout(ctx)

# Token lifecycle

A login returns one access token and one refresh token. The refresh token
never rotates: the device keeps it for the session's whole lifetime, and
refreshing only replaces the access token. Session methods call
getValidToken internally, which refreshes the access token (with a
30-second buffer) before it expires, so callers never refresh manually.

To survive app restarts, persist session.RefreshToken() and rebuild with
client.NewSessionFromTokens.

# Error Handling

Server-side failures come back as *AuthError carrying the HTTP status, the
machine-readable code, and a description:

	_, err := client.Refresh(ctx, staleToken)
	var authErr *authsdk.AuthError
	if errors.As(err, &authErr) && authErr.Code == authsdk.ErrorCodeInvalidGrant {
		// session revoked or expired; log in again
	}

# Thread Safety

Sessions are safe for concurrent use; token state is guarded by a
read/write lock.
*/
package authsdk
