// Package domain contains the core business entities for Zettel.
package domain

import (
	"strings"
	"time"
)

const (
	// MaxTitleLength is the maximum number of characters in a note title.
	MaxTitleLength = 30

	// MaxBodyLength is the maximum number of characters in a note body.
	MaxBodyLength = 500
)

// Note represents a single note owned by a user.
// Notes are created and deleted, never updated in place.
type Note struct {
	// ID is the unique identifier for the note (auto-generated).
	ID int64 `json:"id"`

	// Title is the note title.
	// Constraints: required, at most MaxTitleLength characters,
	// unique per author.
	Title string `json:"title"`

	// Body is the note text.
	// Constraints: required, at most MaxBodyLength characters.
	Body string `json:"body"`

	// Author is the username of the owning user. This is a weak
	// reference: deleting notes never cascades to the user record.
	Author string `json:"author"`

	// CreatedAt is the timestamp when the note was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a new Note with default values.
func NewNote(title, body, author string) *Note {
	return &Note{
		Title:     title,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidateTitle checks the title against the length constraints.
// Lengths are counted in runes so multi-byte input is not penalized.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len([]rune(title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateBody checks the body against the length constraints.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrBodyRequired
	}
	if len([]rune(body)) > MaxBodyLength {
		return ErrNoteBodyTooLong
	}
	return nil
}
