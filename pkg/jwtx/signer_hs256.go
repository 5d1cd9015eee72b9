package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the minimum accepted HMAC secret length. Anything
// shorter than the hash output weakens HS256 below its design strength.
const MinSecretBytes = 32

// HS256Signer implements the Signer interface using HMAC SHA-256 with a
// process-wide shared secret.
type HS256Signer struct {
	secret []byte
	alg    string
}

func newHS256Signer(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwtx: HS256 secret too short: %d bytes, need %d", len(secret), MinSecretBytes)
	}

	// Copy so the caller can't mutate our key material afterwards.
	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256Signer{
		secret: key,
		alg:    jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.secret) < MinSecretBytes {
		return errors.New("jwtx: HS256 secret missing or too short")
	}
	return nil
}
