// Package ics exports rendered calendar items as an iCalendar feed.
package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/render"
)

// ProductID identifies the producer in every exported calendar.
const ProductID = "-//okian//eventboard//DE"

const uidDomain = "eventboard"

// ErrNoLocation is returned when no time zone is supplied.
var ErrNoLocation = errors.New("ics: nil location")

// Export serialises items into a VCALENDAR. Clock times are interpreted in
// loc. Items without a structured start clock become all-day entries with an
// exclusive end date; raw time text is kept in the description.
func Export(items []render.Item, loc *time.Location, stamp time.Time) (string, error) {
	if loc == nil {
		return "", ErrNoLocation
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName("Veranstaltungen")
	cal.SetXWRTimezone(loc.String())

	for _, it := range items {
		ev := cal.AddEvent(it.ID + "@" + uidDomain)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(it.Title)
		if where := it.ExtendedProps.Location; where != "" {
			ev.SetLocation(where)
		}
		if desc := describe(it); desc != "" {
			ev.SetDescription(desc)
		}
		if err := setTimes(ev, it.Span, loc); err != nil {
			return "", fmt.Errorf("item %s: %w", it.ID, err)
		}
	}
	return cal.Serialize(), nil
}

func setTimes(ev *ical.VEvent, sp render.Span, loc *time.Location) error {
	if sp.StartClock == "" {
		first, err := civil.ParseDate(sp.FirstDate)
		if err != nil {
			return err
		}
		last, err := civil.ParseDate(sp.LastDate)
		if err != nil {
			return err
		}
		ev.SetAllDayStartAt(first)
		ev.SetAllDayEndAt(last.AddDate(0, 0, 1))
		return nil
	}

	start, err := at(sp.FirstDate, sp.StartClock, loc)
	if err != nil {
		return err
	}
	ev.SetStartAt(start)

	switch {
	case sp.EndClock != "":
		end, err := at(sp.LastDate, sp.EndClock, loc)
		if err != nil {
			return err
		}
		ev.SetEndAt(end)
	case sp.LastDate != sp.FirstDate:
		last, err := civil.ParseDate(sp.LastDate)
		if err != nil {
			return err
		}
		ev.SetEndAt(time.Date(last.Year(), last.Month(), last.Day()+1, 0, 0, 0, 0, loc))
	}
	return nil
}

func at(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+civil.PadClock(clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %s: %w", date, clock, err)
	}
	return t, nil
}

func describe(it render.Item) string {
	p := it.ExtendedProps
	var lines []string
	if it.Span.Raw != "" {
		lines = append(lines, "Zeit: "+it.Span.Raw)
	}
	if p.MainContact != "" {
		lines = append(lines, "Ansprechpartner: "+p.MainContact)
	}
	if p.ContactInfo != "" {
		lines = append(lines, "Kontakt: "+p.ContactInfo)
	}
	if len(p.ContactPersons) > 0 {
		lines = append(lines, "Verantwortlich: "+strings.Join(p.ContactPersons, ", "))
	}
	return strings.Join(lines, "\n")
}
