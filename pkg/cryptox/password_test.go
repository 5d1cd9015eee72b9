package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("hunter2!", hash))
	require.ErrorIs(t, VerifyPassword("hunter3!", hash), ErrPasswordMismatch)
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "same password should hash differently per salt")
	require.NoError(t, VerifyPassword("same-password", h1))
	require.NoError(t, VerifyPassword("same-password", h2))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not argon2id", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=65536,t=3,p=2"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, VerifyPassword("whatever", tt.hash))
		})
	}
}
