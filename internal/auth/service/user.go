package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/store"
	"github.com/driftwave/auth/pkg/cryptox"
	"github.com/driftwave/auth/pkg/idx"
	"github.com/driftwave/auth/pkg/slogx"
)

// UserService is the credential verifier that fronts the session subsystem.
// It owns usernames and password hashes; once a password checks out the
// rest of the flow only ever sees the user id.
type UserService struct {
	Store    store.Store
	Sessions *SessionService
}

// Register creates a new account. The password is stored as an argon2id
// PHC string, never in the clear.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login verifies a username/password pair and, on success, registers the
// device and returns its token pair. Unknown usernames and wrong passwords
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string, info domain.DeviceInfo) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login failed: password mismatch", slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.Sessions.CreateDeviceSession(ctx, u.ID, info)
}
