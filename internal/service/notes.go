package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/notes-be/internal/apperr"
	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

// NoteInput is the payload for creating a note.
type NoteInput struct {
	Title       string `json:"title" validate:"required,min=2,max=20"`
	Description string `json:"description" validate:"required"`
	Tag         string `json:"tag" validate:"required"`
}

// notePatchInput mirrors NoteInput with every field optional.
type notePatchInput struct {
	Title       *string `json:"title" validate:"omitnil,min=2,max=20"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Tag         *string `json:"tag" validate:"omitnil,min=1"`
}

// NoteService manages notes on behalf of their owner.
type NoteService struct {
	notes    storage.NoteStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewNoteService constructs the service.
func NewNoteService(notes storage.NoteStore, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, validate: newValidator(), logger: logger}
}

// Create stores a new note owned by userID.
func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (models.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tag = strings.TrimSpace(in.Tag)
	if err := validateStruct(s.validate, in); err != nil {
		return models.Note{}, err
	}

	note, err := s.notes.CreateNote(ctx, models.Note{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Tag:         in.Tag,
	})
	if err != nil {
		return models.Note{}, apperr.Store("something went wrong", err)
	}
	s.logger.DebugContext(ctx, "note created", slog.String("note_id", note.ID), slog.String("user_id", userID))
	return note, nil
}

// List returns every note owned by userID, newest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	notes, err := s.notes.ListNotes(ctx, userID)
	if err != nil {
		return nil, apperr.Store("something went wrong", err)
	}
	return notes, nil
}

// Get returns a single note owned by userID.
func (s *NoteService) Get(ctx context.Context, userID, id string) (models.Note, error) {
	note, err := s.notes.FindNote(ctx, userID, id)
	return note, noteError(err)
}

// Update applies a partial update to a note owned by userID.
func (s *NoteService) Update(ctx context.Context, userID, id string, patch models.NotePatch) (models.Note, error) {
	patch.Title = trimPtr(patch.Title)
	patch.Description = trimPtr(patch.Description)
	patch.Tag = trimPtr(patch.Tag)
	if patch.Empty() {
		return models.Note{}, apperr.Validation("nothing to update", "title", "description", "tag")
	}
	if err := validateStruct(s.validate, notePatchInput{
		Title:       patch.Title,
		Description: patch.Description,
		Tag:         patch.Tag,
	}); err != nil {
		return models.Note{}, err
	}

	note, err := s.notes.UpdateNote(ctx, userID, id, patch)
	return note, noteError(err)
}

// Delete removes a note owned by userID and returns it.
func (s *NoteService) Delete(ctx context.Context, userID, id string) (models.Note, error) {
	note, err := s.notes.DeleteNote(ctx, userID, id)
	if err == nil {
		s.logger.DebugContext(ctx, "note deleted", slog.String("note_id", id), slog.String("user_id", userID))
	}
	return note, noteError(err)
}

func noteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("note not found")
	default:
		return apperr.Store("something went wrong", err)
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
