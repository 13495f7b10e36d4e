// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/eventboard/internal/adapters/repository"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/render"
)

// Request headers understood by the API.
const (
	headerIdempotencyKey = "Idempotency-Key"
	headerUser           = "X-User"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	NoteDependencies
	CalendarDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	eventsHandler   *EventsHandler
	notesHandler    *NotesHandler
	calendarHandler *CalendarHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		eventsHandler:   NewEventsHandler(deps),
		notesHandler:    NewNotesHandler(deps),
		calendarHandler: NewCalendarHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /events", MetricsMiddleware(s.eventsHandler.HandleList, "events"))
	mux.HandleFunc("POST /events", MetricsMiddleware(s.eventsHandler.HandleCreate, "events"))
	mux.HandleFunc("GET /events/{id}", MetricsMiddleware(s.eventsHandler.HandleGet, "event"))
	mux.HandleFunc("PUT /events/{id}", MetricsMiddleware(s.eventsHandler.HandleUpdate, "event"))
	mux.HandleFunc("DELETE /events/{id}", MetricsMiddleware(s.eventsHandler.HandleDelete, "event"))
	mux.HandleFunc("PUT /events/{id}/responsibilities",
		MetricsMiddleware(s.eventsHandler.HandleResponsibilities, "responsibilities"))

	mux.HandleFunc("GET /events/{id}/notes", MetricsMiddleware(s.notesHandler.HandleList, "notes"))
	mux.HandleFunc("POST /events/{id}/notes", MetricsMiddleware(s.notesHandler.HandleCreate, "notes"))
	mux.HandleFunc("DELETE /notes/{id}", MetricsMiddleware(s.notesHandler.HandleDelete, "note"))

	mux.HandleFunc("GET /calendar", MetricsMiddleware(s.calendarHandler.HandleCalendar, "calendar"))
	mux.HandleFunc("GET /calendar/config", MetricsMiddleware(s.calendarHandler.HandleConfig, "calendar_config"))
	mux.HandleFunc("POST /calendar/selection", MetricsMiddleware(s.calendarHandler.HandleSelection, "calendar_selection"))
	mux.HandleFunc("GET /calendar.ics", MetricsMiddleware(s.calendarHandler.HandleICS, "calendar_ics"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// batchErrorResponse reports a failed range expansion together with the
// days that were already created.
type batchErrorResponse struct {
	errorResponse
	Result service.BatchResult `json:"result"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps a service error to its HTTP status and error body.
func classify(op string, err error) (int, errorResponse) {
	var ve *expansion.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, errorResponse{Code: "validation_failed", Message: ve.Message, Field: ve.Field}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, errorResponse{Code: "not_found", Message: Wrap(op, err).Error()}
	case errors.Is(err, render.ErrUnknownMode), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, errorResponse{Code: "bad_request", Message: Wrap(op, err).Error()}
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, errorResponse{Code: "unavailable", Message: WrapKind(op, ErrUnavailable, err).Error()}
	default:
		return http.StatusBadGateway, errorResponse{Code: "storage_error", Message: Wrap(op, err).Error()}
	}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, body := classify(op, err)
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
