package render

import (
	"fmt"
	"strings"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/grouping"
	"github.com/okian/eventboard/internal/domain/model"
)

// Format renders one sequence in the given mode.
//
// Spanning mode yields one item. Its end follows the widget's exclusive
// convention: a bare end date is the day after the last record. When an end
// clock is attached to a multi-day run, the date is first moved to the
// exclusive boundary and then one day back, so the clock lands on the real
// last day.
//
// Per-day mode yields one item per record, every item carrying the
// sequence's clocks on the record's own date.
func Format(seq grouping.Sequence, mode Mode, p Palette) ([]Item, error) {
	if len(seq.Records) == 0 {
		return nil, nil
	}
	switch mode {
	case ModeSpanning:
		it, err := spanning(seq, p)
		if err != nil {
			return nil, err
		}
		return []Item{it}, nil
	case ModePerDay:
		return perDay(seq, p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// FormatAll renders every sequence in order.
func FormatAll(seqs []grouping.Sequence, mode Mode, p Palette) ([]Item, error) {
	out := make([]Item, 0, len(seqs))
	for _, s := range seqs {
		items, err := Format(s, mode, p)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func spanning(seq grouping.Sequence, p Palette) (Item, error) {
	base := seq.First()
	first, last := base.Date, seq.Last().Date
	tr := civil.ParseTimeRange(base.Time)

	var exclusive string
	if seq.MultiDay() {
		var err error
		if exclusive, err = civil.AddDays(last, 1); err != nil {
			return Item{}, fmt.Errorf("sequence %s: %w", seq.Key, err)
		}
	}

	it := newItem(base.ID, base, seq.Records, p)
	it.AllDay = tr.AllDay()
	it.Span = Span{FirstDate: first, LastDate: last, StartClock: tr.Start, EndClock: tr.End, Raw: tr.Raw}
	it.Start = first
	it.End = exclusive

	switch {
	case tr.Matched():
		it.Start = dateTime(first, tr.Start)
		if tr.HasEnd() {
			if !seq.MultiDay() {
				it.End = dateTime(first, tr.End)
				break
			}
			lastDay, err := civil.AddDays(exclusive, -1)
			if err != nil {
				return Item{}, fmt.Errorf("sequence %s: %w", seq.Key, err)
			}
			it.End = dateTime(lastDay, tr.End)
		}
	case tr.Raw != "":
		it.Start = dateTime(first, tr.Raw)
	}
	return it, nil
}

func perDay(seq grouping.Sequence, p Palette) []Item {
	tr := civil.ParseTimeRange(seq.First().Time)
	out := make([]Item, 0, len(seq.Records))
	for _, r := range seq.Records {
		it := newItem(r.ID, r, seq.Records, p)
		it.AllDay = tr.AllDay()
		it.Span = Span{FirstDate: r.Date, LastDate: r.Date, StartClock: tr.Start, EndClock: tr.End, Raw: tr.Raw}
		it.Start = r.Date
		switch {
		case tr.Matched():
			it.Start = dateTime(r.Date, tr.Start)
			if tr.HasEnd() {
				it.End = dateTime(r.Date, tr.End)
			}
		case tr.Raw != "":
			it.Start = dateTime(r.Date, tr.Raw)
		}
		out = append(out, it)
	}
	return out
}

func newItem(id string, r model.EventRecord, seq []model.EventRecord, p Palette) Item {
	colors := p.ColorsFor(r.Location)
	persons := make([]string, len(r.ContactPersons))
	copy(persons, r.ContactPersons)
	return Item{
		ID:              id,
		Title:           r.Name,
		BackgroundColor: colors.Background,
		BorderColor:     colors.Border,
		TextColor:       p.Text,
		ExtendedProps: Props{
			Location:       r.Location,
			MainContact:    r.MainContact,
			ContactInfo:    r.ContactInfo,
			ContactPersons: persons,
			Time:           strings.TrimSpace(r.Time),
			OriginalEvent:  r,
			EventSequence:  seq,
		},
	}
}

func dateTime(date, clock string) string {
	return date + "T" + clock + ":00"
}
