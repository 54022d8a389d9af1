// Package service provides business logic services for Zettel.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/repository"
)

// NoteService handles note operations, all scoped to the owning user.
type NoteService struct {
	noteRepo repository.NoteRepository
	logger   zerolog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(noteRepo repository.NoteRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		logger:   logger.With().Str("service", "note").Logger(),
	}
}

// CreateNoteInput contains the data needed to create a note.
type CreateNoteInput struct {
	Title  string
	Body   string
	Author string
}

// CreateNoteOutput contains the result of creating a note.
type CreateNoteOutput struct {
	Note *domain.Note
}

// Create validates and persists a new note. Validation failures
// (duplicate title, length bounds) are reported before anything is
// written; they are user-facing messages, not request-fatal errors.
// The duplicate check runs first, matching the historical behavior the
// HTML messages were written for.
func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*CreateNoteOutput, error) {
	exists, err := s.noteRepo.ExistsByTitle(ctx, input.Author, input.Title)
	if err != nil {
		s.logger.Error().Err(err).Str("author", input.Author).Msg("failed to check title existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: title '%s'", domain.ErrDuplicateTitle, input.Title)
	}

	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidateBody(input.Body); err != nil {
		return nil, err
	}

	note := domain.NewNote(input.Title, input.Body, input.Author)

	if err := s.noteRepo.Create(ctx, note); err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("author", input.Author).Msg("failed to create note")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("note_id", note.ID).
		Str("author", note.Author).
		Msg("note created")

	return &CreateNoteOutput{Note: note}, nil
}

// ListByAuthor returns all notes owned by the given username.
func (s *NoteService) ListByAuthor(ctx context.Context, author string) ([]*domain.Note, error) {
	notes, err := s.noteRepo.ListByAuthor(ctx, author)
	if err != nil {
		s.logger.Error().Err(err).Str("author", author).Msg("failed to list notes")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return notes, nil
}

// Delete removes a single note owned by author.
// Returns domain.ErrNoteNotFound when no note with that id belongs to the
// author; callers may treat that as a best-effort no-op.
func (s *NoteService) Delete(ctx context.Context, id int64, author string) error {
	if err := s.noteRepo.DeleteByID(ctx, id, author); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return domain.ErrNoteNotFound
		}
		s.logger.Error().Err(err).Int64("note_id", id).Msg("failed to delete note")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("note_id", id).
		Str("author", author).
		Msg("note deleted")

	return nil
}

// DeleteAll removes every note owned by author and returns the count.
// Removing zero notes is success, so the operation is idempotent.
func (s *NoteService) DeleteAll(ctx context.Context, author string) (int64, error) {
	count, err := s.noteRepo.DeleteAllByAuthor(ctx, author)
	if err != nil {
		s.logger.Error().Err(err).Str("author", author).Msg("failed to delete notes")
		return 0, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("author", author).
		Int64("count", count).
		Msg("notes deleted")

	return count, nil
}
