package domain

import "time"

// User is the authenticated principal. Identity fields are immutable after
// registration. PasswordHash is written and verified only by the credential
// store; nothing else reads it.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2id PHC encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
