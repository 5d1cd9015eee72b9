package domain

import "time"

// User is an account holder. The session subsystem only ever sees the ID;
// the credential fields exist for the login collaborator.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
