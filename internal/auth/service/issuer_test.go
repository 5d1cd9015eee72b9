package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/driftwave/auth/pkg/jwtx"
)

func TestNewTokenIssuer_Defaults(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer(testSecret, "driftwave-auth", 0, 0)
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, issuer.AccessTTL)
	require.Equal(t, jwtx.DefaultRefreshTokenTTL, issuer.RefreshTTL)
}

func TestNewTokenIssuer_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer([]byte("short"), "driftwave-auth", 0, 0)
	require.Error(t, err)
}

func TestVerifyAccessToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer(testSecret, "driftwave-auth", time.Minute, 0)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := issuer.GenerateAccessToken("user-1", "sess-1", "device-1", time.Now())
		require.NoError(t, err)

		claims, err := issuer.VerifyAccessToken(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "sess-1", claims.SID)
		require.Equal(t, "device-1", claims.DeviceID)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := issuer.VerifyAccessToken("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "driftwave-auth", time.Minute, 0)
		require.NoError(t, err)

		token, err := other.GenerateAccessToken("user-1", "sess-1", "device-1", time.Now())
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.GenerateAccessToken("user-1", "sess-1", "device-1", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewTokenIssuer(testSecret, "someone-else", time.Minute, 0)
		require.NoError(t, err)

		token, err := other.GenerateAccessToken("user-1", "sess-1", "device-1", time.Now())
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGenerateRefreshToken_OpaqueAndUnique(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer(testSecret, "driftwave-auth", 0, 0)
	require.NoError(t, err)

	a, err := issuer.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := issuer.GenerateRefreshToken()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NotContains(t, a, ".", "refresh tokens carry no JWT structure")

	// Opaque refresh tokens must never verify as access tokens.
	_, err = issuer.VerifyAccessToken(a)
	require.ErrorIs(t, err, ErrInvalidToken)
}
