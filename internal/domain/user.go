// Package domain contains the core business entities for Zettel.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the note-taking service.
package domain

import (
	"time"
)

// User represents a registered user in the system.
// Users own notes, keyed by their username.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Username is the unique username for login and display.
	// Constraints: 3-255 characters. Immutable after creation.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses or logs.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a new User with default values.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
