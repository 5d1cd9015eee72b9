package store

import (
	"context"
	"errors"
	"time"

	"github.com/driftwave/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the
	// lookup + conditional update inside a token refresh).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

type Sessions interface {
	// UpsertDeviceSession atomically inserts the session or, when a row for
	// the same (user_id, device_id) already exists, replaces its tokens,
	// device metadata, refresh expiry, active flag and last-active time in
	// place. The existing row id and created_at are preserved. This single
	// statement is the concurrency-control primitive that keeps concurrent
	// registrations of the same device converging on one record.
	UpsertDeviceSession(ctx context.Context, s domain.DeviceSession) error

	// GetSessionByDevice returns the session row for a (user, device) pair
	// regardless of its active flag.
	GetSessionByDevice(ctx context.Context, userID, deviceID string) (domain.DeviceSession, error)

	// GetActiveSessionByRefreshHash resolves a refresh-token fingerprint to
	// its active session. Revoked sessions never match: their fingerprint
	// columns are blanked.
	GetActiveSessionByRefreshHash(ctx context.Context, hash string) (domain.DeviceSession, error)

	// TouchSessionAccessToken stores a freshly minted access-token
	// fingerprint and bumps last_active_at, conditional on the session
	// still being active. Returns ErrNotFound when a concurrent revoke won
	// the race.
	TouchSessionAccessToken(ctx context.Context, id, accessHash string, at time.Time) error

	// RevokeDeviceSession deactivates the (user, device) session and blanks
	// both token fingerprints in one statement. Revoking an absent or
	// already-revoked session is not an error.
	RevokeDeviceSession(ctx context.Context, userID, deviceID string) error

	// RevokeOtherDeviceSessions deactivates every active session of the
	// user except the one matching keepDeviceID, as a single bulk
	// conditional update. Returns the number of sessions revoked.
	RevokeOtherDeviceSessions(ctx context.Context, userID, keepDeviceID string) (int64, error)

	// ListActiveSessions returns the user's active sessions ordered by
	// last_active_at descending (most recently active first).
	ListActiveSessions(ctx context.Context, userID string) ([]domain.DeviceSession, error)
}
