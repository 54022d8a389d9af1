// Package domain contains the core business entities for Zettel.
package domain

import (
	"time"
)

// Session associates an opaque token with exactly one authenticated user.
// Sessions are created on login and destroyed on logout; they carry no
// server-side expiry. The cookie max-age is the only lifetime.
type Session struct {
	// Token is the opaque session identifier handed to the client.
	Token string `json:"-"`

	// UserID is the id of the authenticated user. The user record is
	// re-resolved through the credential store on every request; a
	// session whose user no longer resolves is invalid.
	UserID int64 `json:"user_id"`

	// CreatedAt is the timestamp when the session was issued.
	CreatedAt time.Time `json:"created_at"`
}
