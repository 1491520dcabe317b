package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/notes-be/internal/apperr"
	"github.com/hongminglow/notes-be/internal/auth"
	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/models/dto"
	"github.com/hongminglow/notes-be/internal/service"
)

// NoteHandler exposes CRUD for the caller's notes. Every route requires the
// auth guard.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler constructs the handler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// Register attaches note routes under prefix, each wrapped by guard.
func (h *NoteHandler) Register(mux *http.ServeMux, prefix string, guard func(http.Handler) http.Handler) {
	mux.Handle("POST "+prefix+"/note", guard(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET "+prefix+"/note", guard(http.HandlerFunc(h.handleList)))
	mux.Handle("GET "+prefix+"/note/{id}", guard(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT "+prefix+"/note/{id}", guard(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE "+prefix+"/note/{id}", guard(http.HandlerFunc(h.handleDelete)))
}

func (h *NoteHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperr.Unauthorized("not authorized to access this route", nil))
		return "", false
	}
	return user.ID, true
}

func (h *NoteHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req dto.CreateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	note, err := h.notes.Create(r.Context(), owner, service.NoteInput{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NoteResponse{Msg: "Successfully note created", Note: note})
}

func (h *NoteHandler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	notes, err := h.notes.List(r.Context(), owner)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NotesResponse{Msg: "Data fetched", Notes: notes})
}

func (h *NoteHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	note, err := h.notes.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NoteResponse{Msg: "Note fetched", Note: note})
}

func (h *NoteHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req dto.UpdateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	note, err := h.notes.Update(r.Context(), owner, r.PathValue("id"), models.NotePatch{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NoteResponse{Msg: "note updated successfully", Note: note})
}

func (h *NoteHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	note, err := h.notes.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NoteResponse{Msg: "Note deleted successfully", Note: note})
}
