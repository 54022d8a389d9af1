// Package domain contains the core business entities for Zettel.
package domain

import (
	"errors"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrWrongPassword indicates the supplied password did not verify
	// against the stored hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidUsername indicates the username length is invalid.
	ErrInvalidUsername = errors.New("invalid username: must be 3-255 characters")

	// ErrInvalidPassword indicates the password is empty.
	ErrInvalidPassword = errors.New("invalid password: must not be empty")

	// ===========================================
	// Session Errors
	// ===========================================

	// ErrSessionNotFound indicates the session token is unknown or has
	// been invalidated.
	ErrSessionNotFound = errors.New("session not found")

	// ===========================================
	// Note Errors
	// ===========================================

	// ErrNoteNotFound indicates the requested note does not exist
	// (or is not owned by the requesting user).
	ErrNoteNotFound = errors.New("note not found")

	// ErrDuplicateTitle indicates the author already has a note with
	// the same title.
	ErrDuplicateTitle = errors.New("note with this title already exists")

	// ErrTitleRequired indicates the note title is empty.
	ErrTitleRequired = errors.New("note title is required")

	// ErrTitleTooLong indicates the title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("note title exceeds maximum length of 30 characters")

	// ErrBodyRequired indicates the note body is empty.
	ErrBodyRequired = errors.New("note body is required")

	// ErrNoteBodyTooLong indicates the body exceeds MaxBodyLength.
	ErrNoteBodyTooLong = errors.New("note body exceeds maximum length of 500 characters")
)

// IsValidationError reports whether err is a note validation failure
// that should be surfaced to the user as a message rather than a 500.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDuplicateTitle) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrBodyRequired) ||
		errors.Is(err, ErrNoteBodyTooLong)
}
