package service

import (
	"fmt"
	"time"

	"github.com/driftwave/auth/pkg/cryptox"
	"github.com/driftwave/auth/pkg/jwtx"
)

// TokenIssuer mints the two token kinds a device session carries: signed
// HS256 access tokens and opaque random refresh tokens. It is a plain
// value with no globals; construct one per service instance.
type TokenIssuer struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewTokenIssuer wires an HS256 signer/verifier pair from a shared secret.
// Zero TTLs fall back to the jwtx defaults.
func NewTokenIssuer(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, fmt.Errorf("token signer: %w", err)
	}
	verifier, err := jwtx.NewCommonHS256(secret, issuer)
	if err != nil {
		return nil, fmt.Errorf("token verifier: %w", err)
	}

	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	return &TokenIssuer{
		Signer:     signer,
		Verifier:   verifier,
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}

// GenerateAccessToken signs a short-lived JWT for the given user. The
// session and device ids ride along as custom claims so a token can be
// traced back to the installation that holds it.
func (t *TokenIssuer) GenerateAccessToken(userID, sessionID, deviceID string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(userID, sessionID, deviceID, t.AccessTTL, t.Issuer, now)
	return t.Signer.Sign(claims)
}

// GenerateRefreshToken returns a new opaque refresh token. It carries no
// structure at all; the only way to resolve it is the store lookup by
// fingerprint.
func (t *TokenIssuer) GenerateRefreshToken() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// VerifyAccessToken checks signature, issuer and time-window of an access
// token and returns its claims. Any failure collapses into ErrInvalidToken;
// callers that care about the underlying cause can unwrap it.
//
// This is structural validation only: a token that verifies here may belong
// to a session that has since been revoked. Revocation takes effect at the
// next refresh, when the store is consulted.
func (t *TokenIssuer) VerifyAccessToken(token string) (jwtx.Claims, error) {
	claims, err := t.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
