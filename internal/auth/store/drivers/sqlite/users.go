package sqlite

import (
	"context"
	"errors"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type usersRepo struct {
	db dbtx
}

const createUserQuery = `
INSERT INTO users (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?);
`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, createUserQuery,
		u.ID,
		u.Username,
		u.PasswordHash,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

const getUserQuery = `
SELECT id, username, password_hash, created_at, updated_at
FROM users
`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserQuery+`WHERE id = ?;`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserQuery+`WHERE username = ?;`, username))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *usersRepo) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var createdAt, updatedAt int64

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

// isUniqueViolation detects SQLite unique-constraint failures so callers
// can surface store.ErrAlreadyExists instead of a driver error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT ||
		code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
