// Package render turns event sequences into display items for a calendar
// widget. Formatting is a pure function of (sequence, mode, palette).
package render

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a sequence is laid out.
type Mode string

const (
	// ModeSpanning emits one item covering the whole sequence.
	ModeSpanning Mode = "spanning"
	// ModePerDay emits one item per record.
	ModePerDay Mode = "per-day"
)

// Calendar widget views.
const (
	ViewMonth = "dayGridMonth"
	ViewWeek  = "timeGridWeek"
	ViewList  = "listMonth"
)

// ErrUnknownMode is returned for display modes or views that are not supported.
var ErrUnknownMode = errors.New("unknown display mode")

// ParseMode accepts "spanning" or "per-day" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSpanning:
		return ModeSpanning, nil
	case ModePerDay:
		return ModePerDay, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ModeForView maps a widget view to its layout. Only the month grid can
// show blocks spanning several days.
func ModeForView(view string) (Mode, error) {
	switch view {
	case ViewMonth:
		return ModeSpanning, nil
	case ViewWeek, ViewList:
		return ModePerDay, nil
	default:
		return "", fmt.Errorf("%w: view %q", ErrUnknownMode, view)
	}
}

// ViewForWidth degrades the week grid to the list view on surfaces narrower
// than breakpoint pixels. A width of 0 means unknown and keeps the view.
func ViewForWidth(view string, width, breakpoint int) string {
	if view == ViewWeek && width > 0 && width < breakpoint {
		return ViewList
	}
	return view
}
