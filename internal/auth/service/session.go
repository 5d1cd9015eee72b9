package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/store"
	"github.com/driftwave/auth/pkg/cryptox"
	"github.com/driftwave/auth/pkg/idx"
	"github.com/driftwave/auth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSessionExpired     = errors.New("session_expired")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUsernameTaken      = errors.New("username_taken")
)

// SessionService owns the device-session invariants: at most one session
// per (user, device), atomic token replacement on re-registration, and
// revocation that blanks token material in the same statement that
// deactivates the row.
type SessionService struct {
	Store  store.Store
	Tokens *TokenIssuer
}

// CreateDeviceSession registers a device for a user and returns a fresh
// token pair. Calling it again for the same (user, device) replaces the
// previous pair in place, which silently invalidates whatever the device
// held before; there is no error path for "already registered". Revoked
// sessions come back to life the same way.
func (s *SessionService) CreateDeviceSession(ctx context.Context, userID string, info domain.DeviceInfo) (*domain.TokenPair, error) {
	if userID == "" || info.DeviceID == "" {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	l := slogx.FromContext(ctx)

	refreshOpaque, err := s.Tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	var accessToken string

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-registration keeps the existing row id so the session keeps
		// its identity across token replacements.
		sessionID := idx.New().String()
		existing, err := tx.Sessions().GetSessionByDevice(ctx, userID, info.DeviceID)
		switch {
		case err == nil:
			sessionID = existing.ID
		case errors.Is(err, store.ErrNotFound):
			// first registration for this device
		default:
			return fmt.Errorf("session lookup: %w", err)
		}

		accessToken, err = s.Tokens.GenerateAccessToken(userID, sessionID, info.DeviceID, now)
		if err != nil {
			return fmt.Errorf("sign access token: %w", err)
		}

		sess := domain.DeviceSession{
			ID:               sessionID,
			UserID:           userID,
			DeviceID:         info.DeviceID,
			DeviceName:       info.DeviceName,
			DeviceType:       domain.ParseDeviceType(string(info.DeviceType)),
			DeviceOS:         info.OS,
			Browser:          info.Browser,
			IP:               info.IP,
			Location:         info.Location,
			AccessTokenHash:  cryptox.FingerprintToken(accessToken),
			RefreshTokenHash: cryptox.FingerprintToken(refreshOpaque),
			RefreshExpiresAt: now.Add(s.Tokens.RefreshTTL),
			Active:           true,
			LastActiveAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := tx.Sessions().UpsertDeviceSession(ctx, sess); err != nil {
			return fmt.Errorf("upsert device session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("device session created",
		slog.String("user_id", userID),
		slog.String("device_id", info.DeviceID),
	)

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.Tokens.AccessTTL,
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// refresh token itself does not rotate and its expiry does not move; a
// device keeps one refresh token for the session's whole two-year window.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshOpaque string) (string, error) {
	if refreshOpaque == "" {
		return "", ErrSessionNotFound
	}

	now := time.Now()
	fp := cryptox.FingerprintToken(refreshOpaque)

	var accessToken string

	// Lookup and conditional update share one transaction so a revoke
	// racing this refresh yields ErrSessionNotFound, never a half-updated
	// row.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetActiveSessionByRefreshHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("refresh lookup: %w", err)
		}

		if sess.Expired(now) {
			// The row stays as-is; the device must register again.
			return ErrSessionExpired
		}

		accessToken, err = s.Tokens.GenerateAccessToken(sess.UserID, sess.ID, sess.DeviceID, now)
		if err != nil {
			return fmt.Errorf("sign access token: %w", err)
		}

		if err := tx.Sessions().TouchSessionAccessToken(ctx, sess.ID, cryptox.FingerprintToken(accessToken), now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("update access token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return accessToken, nil
}

// RevokeDevice deactivates one device session and blanks its stored token
// fingerprints. Revoking a device that has no session, or one that is
// already revoked, succeeds silently.
//
// The device's current access token keeps verifying until it expires;
// revocation bites when the device next tries to refresh.
func (s *SessionService) RevokeDevice(ctx context.Context, userID, deviceID string) error {
	if err := s.Store.Sessions().RevokeDeviceSession(ctx, userID, deviceID); err != nil {
		return fmt.Errorf("revoke device session: %w", err)
	}

	slogx.FromContext(ctx).Info("device session revoked",
		slog.String("user_id", userID),
		slog.String("device_id", deviceID),
	)
	return nil
}

// RevokeAllOtherDevices deactivates every active session of the user except
// the calling device's, as one bulk statement. Returns how many sessions
// were revoked; zero when the user has no other devices.
func (s *SessionService) RevokeAllOtherDevices(ctx context.Context, userID, keepDeviceID string) (int64, error) {
	n, err := s.Store.Sessions().RevokeOtherDeviceSessions(ctx, userID, keepDeviceID)
	if err != nil {
		return 0, fmt.Errorf("revoke other device sessions: %w", err)
	}

	slogx.FromContext(ctx).Info("other device sessions revoked",
		slog.String("user_id", userID),
		slog.String("kept_device_id", keepDeviceID),
		slog.Int64("revoked", n),
	)
	return n, nil
}

// ListActiveDevices returns the user's active sessions, most recently
// active first. Revoked sessions never appear.
func (s *SessionService) ListActiveDevices(ctx context.Context, userID string) ([]domain.DeviceSession, error) {
	sessions, err := s.Store.Sessions().ListActiveSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}
