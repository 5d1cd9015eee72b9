package sqlite

import (
	"context"
	"time"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/store"
)

type sessionsRepo struct {
	db dbtx
}

// The conflict target is the (user_id, device_id) unique index; the existing
// row keeps its id and created_at while everything the client re-supplied is
// replaced in place. active is forced back to 1 so a revoked device that
// registers again comes back to life.
const upsertSessionQuery = `
INSERT INTO device_sessions (
    id, user_id, device_id,
    device_name, device_type, device_os, browser, ip, location,
    access_token_hash, refresh_token_hash, refresh_expires_at,
    active, last_active_at, created_at, updated_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
ON CONFLICT (user_id, device_id) DO UPDATE SET
    device_name        = excluded.device_name,
    device_type        = excluded.device_type,
    device_os          = excluded.device_os,
    browser            = excluded.browser,
    ip                 = excluded.ip,
    location           = excluded.location,
    access_token_hash  = excluded.access_token_hash,
    refresh_token_hash = excluded.refresh_token_hash,
    refresh_expires_at = excluded.refresh_expires_at,
    active             = 1,
    last_active_at     = excluded.last_active_at,
    updated_at         = excluded.updated_at;
`

func (r *sessionsRepo) UpsertDeviceSession(ctx context.Context, s domain.DeviceSession) error {
	_, err := r.db.ExecContext(ctx, upsertSessionQuery,
		s.ID,
		s.UserID,
		s.DeviceID,
		s.DeviceName,
		string(s.DeviceType),
		s.DeviceOS,
		s.Browser,
		s.IP,
		s.Location,
		s.AccessTokenHash,
		s.RefreshTokenHash,
		toMillis(s.RefreshExpiresAt),
		toMillis(s.LastActiveAt),
		toMillis(s.CreatedAt),
		toMillis(s.UpdatedAt),
	)
	return err
}

const selectSessionColumns = `
SELECT id, user_id, device_id,
       device_name, device_type, device_os, browser, ip, location,
       access_token_hash, refresh_token_hash, refresh_expires_at,
       active, last_active_at, created_at, updated_at
FROM device_sessions
`

func (r *sessionsRepo) GetSessionByDevice(ctx context.Context, userID, deviceID string) (domain.DeviceSession, error) {
	row := r.db.QueryRowContext(ctx, selectSessionColumns+`WHERE user_id = ? AND device_id = ?;`, userID, deviceID)
	return scanSession(row)
}

func (r *sessionsRepo) GetActiveSessionByRefreshHash(ctx context.Context, hash string) (domain.DeviceSession, error) {
	// Revoked rows store '' in both fingerprint columns. Refusing empty
	// input here keeps a blanked column from ever matching a lookup.
	if hash == "" {
		return domain.DeviceSession{}, store.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, selectSessionColumns+`WHERE refresh_token_hash = ? AND active = 1;`, hash)
	return scanSession(row)
}

const touchSessionQuery = `
UPDATE device_sessions
SET access_token_hash = ?, last_active_at = ?, updated_at = ?
WHERE id = ? AND active = 1;
`

func (r *sessionsRepo) TouchSessionAccessToken(ctx context.Context, id, accessHash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, touchSessionQuery, accessHash, toMillis(at), toMillis(at), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The session was revoked between lookup and update.
		return store.ErrNotFound
	}
	return nil
}

// Revocation blanks both fingerprints and clears the active flag in one
// statement so readers never see a deactivated row that still carries
// usable token material.
const revokeSessionQuery = `
UPDATE device_sessions
SET access_token_hash = '', refresh_token_hash = '', active = 0, updated_at = ?
WHERE user_id = ? AND device_id = ? AND active = 1;
`

func (r *sessionsRepo) RevokeDeviceSession(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx, revokeSessionQuery, toMillis(time.Now()), userID, deviceID)
	return err
}

const revokeOthersQuery = `
UPDATE device_sessions
SET access_token_hash = '', refresh_token_hash = '', active = 0, updated_at = ?
WHERE user_id = ? AND device_id <> ? AND active = 1;
`

func (r *sessionsRepo) RevokeOtherDeviceSessions(ctx context.Context, userID, keepDeviceID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, revokeOthersQuery, toMillis(time.Now()), userID, keepDeviceID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) ListActiveSessions(ctx context.Context, userID string) ([]domain.DeviceSession, error) {
	// Timestamps are millisecond precision, so back-to-back registrations
	// can tie on last_active_at. Ids are monotonic ULIDs; breaking ties on
	// id keeps the order stable and matching creation order.
	rows, err := r.db.QueryContext(ctx, selectSessionColumns+`WHERE user_id = ? AND active = 1 ORDER BY last_active_at DESC, id DESC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.DeviceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (domain.DeviceSession, error) {
	var s domain.DeviceSession
	var deviceType string
	var active int64
	var refreshExpiresAt, lastActiveAt, createdAt, updatedAt int64

	err := row.Scan(
		&s.ID, &s.UserID, &s.DeviceID,
		&s.DeviceName, &deviceType, &s.DeviceOS, &s.Browser, &s.IP, &s.Location,
		&s.AccessTokenHash, &s.RefreshTokenHash, &refreshExpiresAt,
		&active, &lastActiveAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.DeviceSession{}, mapNotFound(err)
	}

	s.DeviceType = domain.DeviceType(deviceType)
	s.Active = active != 0
	s.RefreshExpiresAt = fromMillis(refreshExpiresAt)
	s.LastActiveAt = fromMillis(lastActiveAt)
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updatedAt)
	return s, nil
}
