package service

import (
	"context"
	"time"

	"github.com/okian/eventboard/internal/adapters/ics"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/grouping"
	"github.com/okian/eventboard/internal/domain/render"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

// Calendar is one render pass over the current records.
type Calendar struct {
	Mode      render.Mode   `json:"mode"`
	Sequences int           `json:"sequences"`
	Items     []render.Item `json:"items"`
}

// Calendar groups the current records into sequences and formats them in
// mode. Sequences are rebuilt on every call.
func (s *Service) Calendar(ctx context.Context, mode render.Mode) (Calendar, error) {
	st, err := s.backend()
	if err != nil {
		return Calendar{}, err
	}
	start := time.Now()

	records, err := st.List(ctx)
	if err != nil {
		return Calendar{}, s.storageFailure(ctx, "list", err)
	}
	seqs := grouping.Group(records)
	items, err := render.FormatAll(seqs, mode, s.palette)
	if err != nil {
		return Calendar{}, err
	}

	latency := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordRenderPass(string(mode), len(seqs), len(items), latency)
	s.logger.Debug(ctx, "calendar rendered",
		logger.String("mode", string(mode)),
		logger.Int("records", len(records)),
		logger.Int("sequences", len(seqs)),
		logger.Int("items", len(items)),
	)
	return Calendar{Mode: mode, Sequences: len(seqs), Items: items}, nil
}

// ResolveMode picks the layout for a widget view shown at width pixels.
// An empty view means the initial month grid.
func (s *Service) ResolveMode(view string, width int) (string, render.Mode, error) {
	if view == "" {
		view = render.ViewMonth
	}
	view = render.ViewForWidth(view, width, s.compactBreakpoint)
	mode, err := render.ModeForView(view)
	if err != nil {
		return "", "", err
	}
	return view, mode, nil
}

// DisplayConfig is the widget configuration matching the service palette.
func (s *Service) DisplayConfig() render.DisplayConfig {
	return render.DefaultDisplayConfig(s.palette, s.compactBreakpoint)
}

// Selection is a widget selection converted into a creation draft.
type Selection struct {
	Days  []string          `json:"days"`
	Draft expansion.Request `json:"draft"`
}

// SelectDays converts a widget selection with an exclusive end into the
// selected days and a pre-filled creation request.
func (s *Service) SelectDays(ctx context.Context, start, endExclusive string) (Selection, error) {
	days, err := expansion.SelectionDays(start, endExclusive, s.maxRangeDays)
	if err != nil {
		s.rejected(ctx, err)
		return Selection{}, err
	}
	return Selection{Days: days, Draft: expansion.RequestFromSelection(days)}, nil
}

// ExportICS renders every sequence in spanning mode as an iCalendar feed.
func (s *Service) ExportICS(ctx context.Context) (string, error) {
	cal, err := s.Calendar(ctx, render.ModeSpanning)
	if err != nil {
		return "", err
	}
	out, err := ics.Export(cal.Items, s.location, s.now())
	if err != nil {
		s.logger.Error(ctx, "ics export failed", logger.Error(err))
		return "", err
	}
	s.logger.Debug(ctx, "ics exported", logger.Int("items", len(cal.Items)))
	return out, nil
}
