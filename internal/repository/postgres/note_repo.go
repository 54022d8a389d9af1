package postgres

import (
	"context"
	"fmt"

	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/repository"
)

// noteRepository implements repository.NoteRepository for PostgreSQL.
type noteRepository struct {
	db *DB
}

// NewNoteRepository creates a new PostgreSQL note repository.
func NewNoteRepository(db *DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

// Create creates a new note.
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (title, body, author, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		note.Title,
		note.Body,
		note.Author,
		note.CreatedAt,
	).Scan(&note.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: title '%s'", domain.ErrDuplicateTitle, note.Title)
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// ListByAuthor returns all notes owned by the given username in insertion order.
func (r *noteRepository) ListByAuthor(ctx context.Context, author string) ([]*domain.Note, error) {
	query := `
		SELECT id, title, body, author, created_at
		FROM notes
		WHERE author = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note := &domain.Note{}
		err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Body,
			&note.Author,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
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
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE author = $1 AND title = $2)`,
		author, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}
	return exists, nil
}

// DeleteByID removes a single note, scoped by owner.
func (r *noteRepository) DeleteByID(ctx context.Context, id int64, author string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND author = $2`,
		id, author,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

// DeleteAllByAuthor removes every note owned by the given username.
func (r *noteRepository) DeleteAllByAuthor(ctx context.Context, author string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM notes WHERE author = $1`,
		author,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Ensure noteRepository implements repository.NoteRepository.
var _ repository.NoteRepository = (*noteRepository)(nil)
