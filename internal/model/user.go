// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash holds the Argon2id hash of the password; the plaintext
// is never stored and the hash is never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
