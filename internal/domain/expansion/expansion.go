// Package expansion splits a date-range creation request into one record per
// covered day, after validating it.
package expansion

import (
	"fmt"
	"strings"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/model"
)

// Request is a user submission describing a possibly multi-day event.
type Request struct {
	Name        string `json:"name" yaml:"name"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate"`
	MultiDay    bool   `json:"multiDay" yaml:"multiDay"`
	StartTime   string `json:"startTime,omitempty" yaml:"startTime"`
	EndTime     string `json:"endTime,omitempty" yaml:"endTime"`
	Location    string `json:"location" yaml:"location"`
	MainContact string `json:"mainContact,omitempty" yaml:"mainContact"`
	ContactInfo string `json:"contactInfo,omitempty" yaml:"contactInfo"`
	AddNote     bool   `json:"addNote,omitempty" yaml:"addNote"`
	Note        string `json:"note,omitempty" yaml:"note"`
}

// IsMultiDay reports whether the request covers more than its start date.
// An end date is ignored unless the multi-day flag is set.
func (r Request) IsMultiDay() bool {
	return r.MultiDay && r.EndDate != "" && r.EndDate != r.StartDate
}

// LastDate is the final covered day.
func (r Request) LastDate() string {
	if r.IsMultiDay() {
		return r.EndDate
	}
	return r.StartDate
}

// TimeString composes the stored time field from the two clocks. An end
// clock without a start clock yields an all-day record.
func (r Request) TimeString() string {
	start := strings.TrimSpace(r.StartTime)
	end := strings.TrimSpace(r.EndTime)
	switch {
	case start == "":
		return ""
	case end == "":
		return civil.PadClock(start)
	default:
		return civil.PadClock(start) + "-" + civil.PadClock(end)
	}
}

// Validate checks the request. maxDays bounds how many records one request
// may create; zero disables the bound.
func (r Request) Validate(maxDays int) error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", msgNameRequired)
	}
	if strings.TrimSpace(r.Location) == "" {
		return invalid("location", msgLocationRequired)
	}
	if !civil.IsDate(r.StartDate) {
		return invalid("startDate", msgInvalidDate)
	}
	if r.MultiDay && r.EndDate != "" {
		n, err := civil.DaysBetween(r.StartDate, r.EndDate)
		if err != nil {
			return invalid("endDate", msgInvalidDate)
		}
		if n < 0 {
			return invalid("endDate", msgEndBeforeStart)
		}
		if maxDays > 0 && n+1 > maxDays {
			return invalid("endDate", msgRangeTooLong)
		}
	}

	start := strings.TrimSpace(r.StartTime)
	end := strings.TrimSpace(r.EndTime)
	if start != "" && !civil.ValidClock(start) {
		return invalid("startTime", msgInvalidTime)
	}
	if end != "" && !civil.ValidClock(end) {
		return invalid("endTime", msgInvalidTime)
	}
	// On a multi-day event the two clocks belong to different days.
	if start != "" && end != "" && !r.IsMultiDay() && civil.CompareClocks(start, end) >= 0 {
		return invalid("endTime", msgEndTimeOrder)
	}

	if r.AddNote && strings.TrimSpace(r.Note) == "" {
		return invalid("note", msgNoteRequired)
	}
	return nil
}

// Step is one record creation in a plan.
type Step struct {
	Index  int
	Fields model.EventFields
	// Note is set on the first step only.
	Note string
}

// Plan is the ordered list of creations for one request, ascending by date.
type Plan struct {
	Steps []Step
}

// Dates lists the planned dates in creation order.
func (p Plan) Dates() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Fields.Date
	}
	return out
}

// Expand validates the request and returns one step per covered day.
func Expand(r Request, maxDays int) (Plan, error) {
	if err := r.Validate(maxDays); err != nil {
		return Plan{}, err
	}
	days, err := civil.Days(r.StartDate, r.LastDate())
	if err != nil {
		return Plan{}, fmt.Errorf("expand %s..%s: %w", r.StartDate, r.LastDate(), err)
	}

	shared := model.EventFields{
		Name:        strings.TrimSpace(r.Name),
		Time:        r.TimeString(),
		Location:    strings.TrimSpace(r.Location),
		MainContact: strings.TrimSpace(r.MainContact),
		ContactInfo: strings.TrimSpace(r.ContactInfo),
	}
	plan := Plan{Steps: make([]Step, 0, len(days))}
	for i, d := range days {
		f := shared
		f.Date = d
		step := Step{Index: i, Fields: f}
		if i == 0 && r.AddNote {
			step.Note = strings.TrimSpace(r.Note)
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}
