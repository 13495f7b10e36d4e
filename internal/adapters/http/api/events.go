package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/model"
)

// EventDependencies defines the interface for event record operations.
type EventDependencies interface {
	SeenAndRecord(ctx context.Context, key string) bool
	Unrecord(ctx context.Context, key string)

	ListEvents(ctx context.Context) ([]model.EventRecord, error)
	GetEvent(ctx context.Context, id string) (model.EventRecord, error)
	CreateEvents(ctx context.Context, req expansion.Request, author string) (service.BatchResult, error)
	UpdateEvent(ctx context.Context, id string, f model.EventFields) (model.EventRecord, error)
	AssignResponsibilities(ctx context.Context, id string, names []string) (model.EventRecord, error)
	DeleteEvent(ctx context.Context, id string) error
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleList handles GET /events requests.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	records, err := h.deps.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleCreate handles POST /events requests. The body is a range request;
// one record per covered day is created.
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_events"
	var req expansion.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key != "" && h.deps.SeenAndRecord(r.Context(), key) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	res, err := h.deps.CreateEvents(r.Context(), req, r.Header.Get(headerUser))
	if err != nil {
		// The key is released only when nothing was persisted. Once a day
		// exists, a retry under the same key must not create it again.
		if key != "" && res.Created == 0 {
			h.deps.Unrecord(r.Context(), key)
		}
		status, body := classify(op, err)
		if len(res.Steps) > 0 {
			writeJSON(w, status, batchErrorResponse{errorResponse: body, Result: res})
			return
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGet handles GET /events/{id} requests.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	rec, err := h.deps.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleUpdate handles PUT /events/{id} requests.
func (h *EventsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_event"
	var f model.EventFields
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.UpdateEvent(r.Context(), r.PathValue("id"), f)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type responsibilitiesRequest struct {
	ContactPersons []string `json:"contactPersons"`
}

// HandleResponsibilities handles PUT /events/{id}/responsibilities requests.
func (h *EventsHandler) HandleResponsibilities(w http.ResponseWriter, r *http.Request) {
	const op = "api.responsibilities"
	var req responsibilitiesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.AssignResponsibilities(r.Context(), r.PathValue("id"), req.ContactPersons)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /events/{id} requests.
func (h *EventsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"
	if err := h.deps.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
