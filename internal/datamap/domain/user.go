package domain

import "time"

// User is an account identity. Accounts are created on registration and never
// mutated afterwards; there is no update or delete path.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
}
