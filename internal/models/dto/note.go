package dto

import "github.com/hongminglow/notes-be/internal/models"

type CreateNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

// UpdateNoteRequest uses pointers so absent fields stay untouched.
type UpdateNoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
}

type NoteResponse struct {
	Msg  string      `json:"msg"`
	Note models.Note `json:"note"`
}

type NotesResponse struct {
	Msg   string        `json:"msg"`
	Notes []models.Note `json:"notes"`
}
