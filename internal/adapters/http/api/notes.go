package api

import (
	"context"
	"net/http"

	"github.com/okian/eventboard/internal/domain/model"
)

// NoteDependencies defines the interface for note operations.
type NoteDependencies interface {
	Notes(ctx context.Context, eventID string) ([]model.EventNote, error)
	AddNote(ctx context.Context, eventID, content, author string) (model.EventNote, error)
	DeleteNote(ctx context.Context, id string) error
}

// NotesHandler handles note requests.
type NotesHandler struct {
	deps NoteDependencies
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(deps NoteDependencies) *NotesHandler {
	return &NotesHandler{deps: deps}
}

type noteRequest struct {
	Content string `json:"content"`
}

// HandleList handles GET /events/{id}/notes requests.
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_notes"
	notes, err := h.deps.Notes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if notes == nil {
		notes = []model.EventNote{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// HandleCreate handles POST /events/{id}/notes requests. The author is taken
// from the X-User header.
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_note"
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	note, err := h.deps.AddNote(r.Context(), r.PathValue("id"), req.Content, r.Header.Get(headerUser))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// HandleDelete handles DELETE /notes/{id} requests.
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_note"
	if err := h.deps.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
