// Package repository defines data access interfaces for Zettel.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/zettel-notes/internal/domain"
)

// =============================================================================
// User Repository (credential store)
// =============================================================================

// UserRepository defines the interface for user data access.
// There are deliberately no update or delete operations: user records are
// immutable after signup.
type UserRepository interface {
	// Create creates a new user. Returns domain.ErrUserAlreadyExists when
	// the username is taken; the storage-level UNIQUE constraint is the
	// authority, so concurrent identical signups cannot both succeed.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Used to resolve an active session
	// back to a full user record on every authenticated request.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns all users with pagination. Used by the admin CLI.
	List(ctx context.Context, opts ListOptions) ([]*domain.User, error)
}

// =============================================================================
// Note Repository
// =============================================================================

// NoteRepository defines the interface for note data access.
type NoteRepository interface {
	// Create creates a new note. Returns domain.ErrDuplicateTitle when the
	// author already has a note with the same title.
	Create(ctx context.Context, note *domain.Note) error

	// ListByAuthor returns all notes owned by the given username in
	// insertion order.
	ListByAuthor(ctx context.Context, author string) ([]*domain.Note, error)

	// ExistsByTitle checks if the author already has a note with the
	// given title.
	ExistsByTitle(ctx context.Context, author, title string) (bool, error)

	// DeleteByID removes a single note, scoped by owner. Returns
	// domain.ErrNoteNotFound when no note with that id belongs to author.
	DeleteByID(ctx context.Context, id int64, author string) error

	// DeleteAllByAuthor removes every note owned by the given username
	// and returns the number of notes removed. Zero is not an error.
	DeleteAllByAuthor(ctx context.Context, author string) (int64, error)
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
