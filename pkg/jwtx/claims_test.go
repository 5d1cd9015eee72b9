package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Now().UTC()

	claims := NewAccessClaims("user-1", "sess-1", "dev-1", 15*time.Minute, "driftwave-auth", now)

	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "sess-1", claims.SID)
	require.Equal(t, "dev-1", claims.DeviceID)
	require.Equal(t, "driftwave-auth", claims.Issuer)
	require.NotEmpty(t, claims.ID)

	require.WithinDuration(t, now, claims.IssuedAt.Time, time.Second)
	require.WithinDuration(t, now.Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestNewJTIIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		jti := NewJTI()
		require.NotEmpty(t, jti)
		require.False(t, seen[jti], "duplicate jti generated")
		seen[jti] = true
	}
}

func TestValidateIssuer(t *testing.T) {
	c := Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "driftwave-auth"}}

	require.NoError(t, c.ValidateIssuer("driftwave-auth"))
	require.NoError(t, c.ValidateIssuer("")) // empty means "don't care"
	require.ErrorIs(t, c.ValidateIssuer("someone-else"), ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token passes", func(t *testing.T) {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token fails", func(t *testing.T) {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), ErrExpired)
	})

	t.Run("not-yet-valid token fails", func(t *testing.T) {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), ErrNotYetValid)
	})

	t.Run("leeway tolerates small skew", func(t *testing.T) {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-5 * time.Second)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), ErrExpired)
		require.NoError(t, c.ValidateExpiryWithLeeway(30*time.Second))
	})
}
