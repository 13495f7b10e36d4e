package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/render"
)

// CalendarDependencies defines the interface for calendar rendering.
type CalendarDependencies interface {
	Calendar(ctx context.Context, mode render.Mode) (service.Calendar, error)
	ResolveMode(view string, width int) (string, render.Mode, error)
	DisplayConfig() render.DisplayConfig
	SelectDays(ctx context.Context, start, endExclusive string) (service.Selection, error)
	ExportICS(ctx context.Context) (string, error)
}

// CalendarHandler handles calendar requests.
type CalendarHandler struct {
	deps CalendarDependencies
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(deps CalendarDependencies) *CalendarHandler {
	return &CalendarHandler{deps: deps}
}

type calendarResponse struct {
	service.Calendar
	View string `json:"view,omitempty"`
}

// HandleCalendar handles GET /calendar requests.
//
// Query parameters:
//
//	mode   spanning | per-day, takes precedence over view
//	view   dayGridMonth | timeGridWeek | listMonth
//	width  surface width in pixels; narrow week views become lists
func (h *CalendarHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar"
	q := r.URL.Query()

	var (
		mode render.Mode
		view string
		err  error
	)
	if m := q.Get("mode"); m != "" {
		mode, err = render.ParseMode(m)
	} else {
		width := 0
		if ws := q.Get("width"); ws != "" {
			if width, err = strconv.Atoi(ws); err != nil || width < 0 {
				writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, errors.New("invalid width")))
				return
			}
		}
		view, mode, err = h.deps.ResolveMode(q.Get("view"), width)
	}
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	cal, err := h.deps.Calendar(r.Context(), mode)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Calendar: cal, View: view})
}

// HandleConfig handles GET /calendar/config requests.
func (h *CalendarHandler) HandleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.DisplayConfig())
}

type selectionRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// HandleSelection handles POST /calendar/selection requests. End is
// exclusive, as reported by the widget.
func (h *CalendarHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar_selection"
	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sel, err := h.deps.SelectDays(r.Context(), req.Start, req.End)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// HandleICS handles GET /calendar.ics requests.
func (h *CalendarHandler) HandleICS(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar_ics"
	out, err := h.deps.ExportICS(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="veranstaltungen.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}
