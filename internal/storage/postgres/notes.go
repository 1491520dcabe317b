package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

const noteColumns = `id, user_id, title, description, tag, created_at, updated_at`

// CreateNote inserts a note row.
func (s *Store) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO notes (id, user_id, title, description, tag)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + noteColumns
	created, err := scanNote(s.pool.QueryRow(ctx, query, note.ID, note.UserID, note.Title, note.Description, note.Tag))
	if err != nil {
		return models.Note{}, errors.Wrap(err, "insert note")
	}
	return created, nil
}

// ListNotes returns the user's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "query notes")
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan note")
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate notes")
	}
	return notes, nil
}

// FindNote fetches a note owned by userID.
func (s *Store) FindNote(ctx context.Context, userID, id string) (models.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	return scanNote(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateNote applies the non-nil fields of patch.
func (s *Store) UpdateNote(ctx context.Context, userID, id string, patch models.NotePatch) (models.Note, error) {
	const query = `
		UPDATE notes SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			tag = COALESCE($5, tag),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns
	return scanNote(s.pool.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.Tag))
}

// DeleteNote removes a note owned by userID and returns the deleted row.
func (s *Store) DeleteNote(ctx context.Context, userID, id string) (models.Note, error) {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2 RETURNING ` + noteColumns
	return scanNote(s.pool.QueryRow(ctx, query, id, userID))
}

func scanNote(row pgx.Row) (models.Note, error) {
	var n models.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Tag, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Note{}, storage.ErrNotFound
		}
		return models.Note{}, err
	}
	return n, nil
}
