package jwtx

import (
	"errors"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS256Adapter is a Verifier wrapper for HS256.
type HS256Adapter struct{ *HS256Verifier }

func (a HS256Adapter) Verify(token string) (Claims, error) {
	c, err := a.HS256Verifier.Verify(token)
	if err != nil {
		return Claims{}, err
	}
	return *c, nil
}

// NewCommonHS256 returns a Verifier using the HS256 implementation wrapped
// in the common interface.
func NewCommonHS256(secret []byte, issuer string) (Verifier, error) {
	v, err := NewVerifierHS256(secret, issuer)
	if err != nil {
		return nil, err
	}
	return HS256Adapter{v}, nil
}
