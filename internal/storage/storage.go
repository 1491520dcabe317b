package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/notes-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations. Implementations must
// enforce email uniqueness themselves and report violations as
// ErrAlreadyExists.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// NoteStore captures note persistence. Every call is scoped to the owning
// user; a note owned by someone else is reported as ErrNotFound.
type NoteStore interface {
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	ListNotes(ctx context.Context, userID string) ([]models.Note, error)
	FindNote(ctx context.Context, userID, id string) (models.Note, error)
	UpdateNote(ctx context.Context, userID, id string, patch models.NotePatch) (models.Note, error)
	DeleteNote(ctx context.Context, userID, id string) (models.Note, error)
}

// Store is the full persistence surface a backend provides.
type Store interface {
	UserStore
	NoteStore
	Close()
}
