package seeding

import (
	"fmt"
	"strings"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/render"
)

// Mismatch describes a multi-day request that did not surface as a single
// spanning item.
type Mismatch struct {
	Index  int
	Name   string
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("request %d (%s): %s", m.Index, m.Name, m.Reason)
}

// Verify checks that every multi-day request appears as exactly one
// spanning item covering its whole range. It returns the number of verified
// requests and the mismatches.
func Verify(reqs []expansion.Request, items []render.Item) (int, []Mismatch) {
	var (
		verified   int
		mismatches []Mismatch
	)
	for i, req := range reqs {
		if !req.MultiDay || req.EndDate == "" || req.EndDate <= req.StartDate {
			continue
		}
		if reason := verifySpan(req, items); reason != "" {
			mismatches = append(mismatches, Mismatch{Index: i, Name: req.Name, Reason: reason})
			continue
		}
		verified++
	}
	return verified, mismatches
}

func verifySpan(req expansion.Request, items []render.Item) string {
	var found []render.Item
	for _, it := range items {
		seq := it.ExtendedProps.EventSequence
		if len(seq) == 0 {
			continue
		}
		if strings.TrimSpace(it.Title) == strings.TrimSpace(req.Name) &&
			strings.TrimSpace(it.ExtendedProps.Location) == strings.TrimSpace(req.Location) &&
			seq[0].Date <= req.EndDate && seq[len(seq)-1].Date >= req.StartDate {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return "no calendar item"
	case 1:
	default:
		return fmt.Sprintf("%d calendar items instead of one", len(found))
	}

	it := found[0]
	seq := it.ExtendedProps.EventSequence
	first, last := seq[0].Date, seq[len(seq)-1].Date
	if first != req.StartDate || last != req.EndDate {
		return fmt.Sprintf("sequence covers %s..%s, want %s..%s", first, last, req.StartDate, req.EndDate)
	}
	if !strings.HasPrefix(it.Start, req.StartDate) {
		return fmt.Sprintf("item starts at %s", it.Start)
	}

	// A bare end date is exclusive; a date-time end sits on the last day.
	if strings.Contains(it.End, "T") {
		if !strings.HasPrefix(it.End, req.EndDate) {
			return fmt.Sprintf("item ends at %s, want %s", it.End, req.EndDate)
		}
		return ""
	}
	want, err := civil.AddDays(req.EndDate, 1)
	if err != nil {
		return err.Error()
	}
	if it.End != want {
		return fmt.Sprintf("item ends at %s, want %s", it.End, want)
	}
	return ""
}
