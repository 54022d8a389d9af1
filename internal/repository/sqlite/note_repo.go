package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/repository"
)

// noteRepository implements repository.NoteRepository for SQLite.
type noteRepository struct {
	db *DB
}

// NewNoteRepository creates a new SQLite note repository.
func NewNoteRepository(db *DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

// Create creates a new note.
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (title, body, author, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		note.Title,
		note.Body,
		note.Author,
		note.CreatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: title '%s'", domain.ErrDuplicateTitle, note.Title)
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	note.ID = id

	return nil
}

// ListByAuthor returns all notes owned by the given username in insertion order.
func (r *noteRepository) ListByAuthor(ctx context.Context, author string) ([]*domain.Note, error) {
	query := `
		SELECT id, title, body, author, created_at
		FROM notes
		WHERE author = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note := &domain.Note{}
		var createdAt string

		err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Body,
			&note.Author,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}

		note.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse note created_at: %w", err)
		}

		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// ExistsByTitle checks if the author already has a note with the given title.
func (r *noteRepository) ExistsByTitle(ctx context.Context, author, title string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE author = ? AND title = ?`,
		author, title,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}
	return count > 0, nil
}

// DeleteByID removes a single note, scoped by owner.
func (r *noteRepository) DeleteByID(ctx context.Context, id int64, author string) error {
	query := `DELETE FROM notes WHERE id = ? AND author = ?`

	result, err := r.db.ExecContext(ctx, query, id, author)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

// DeleteAllByAuthor removes every note owned by the given username.
func (r *noteRepository) DeleteAllByAuthor(ctx context.Context, author string) (int64, error) {
	query := `DELETE FROM notes WHERE author = ?`

	result, err := r.db.ExecContext(ctx, query, author)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Ensure noteRepository implements repository.NoteRepository.
var _ repository.NoteRepository = (*noteRepository)(nil)
