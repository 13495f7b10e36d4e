package expansion

import (
	"strings"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/model"
)

// SelectionDays converts a widget selection, whose end is exclusive, into the
// inclusive list of selected days. Date-time values are cut to their date.
// A selection of more than maxDays days is rejected before any day is
// listed; maxDays <= 0 disables the bound.
func SelectionDays(start, endExclusive string, maxDays int) ([]string, error) {
	start, endExclusive = datePart(start), datePart(endExclusive)
	if !civil.IsDate(start) {
		return nil, invalid("start", msgInvalidDate)
	}
	if !civil.IsDate(endExclusive) {
		return nil, invalid("end", msgInvalidDate)
	}
	last, err := civil.AddDays(endExclusive, -1)
	if err != nil {
		return nil, invalid("end", msgInvalidDate)
	}
	if last < start {
		return nil, invalid("end", msgEmptySelection)
	}
	n, err := civil.DaysBetween(start, last)
	if err != nil {
		return nil, invalid("end", msgInvalidDate)
	}
	if maxDays > 0 && n+1 > maxDays {
		return nil, invalid("end", msgSelectionTooLong)
	}
	return civil.Days(start, last)
}

// RequestFromSelection pre-fills a creation request from selected days.
func RequestFromSelection(days []string) Request {
	if len(days) == 0 {
		return Request{}
	}
	return Request{
		StartDate: days[0],
		EndDate:   days[len(days)-1],
		MultiDay:  len(days) > 1,
	}
}

// ValidateFields checks the fields of a single-record edit.
func ValidateFields(f model.EventFields) error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", msgNameRequired)
	}
	if strings.TrimSpace(f.Location) == "" {
		return invalid("location", msgLocationRequired)
	}
	if !civil.IsDate(f.Date) {
		return invalid("date", msgInvalidDate)
	}
	if t := strings.TrimSpace(f.Time); t != "" && !civil.ParseTimeRange(t).Matched() {
		return invalid("time", msgInvalidTime)
	}
	return nil
}

func datePart(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(civil.DateLayout) {
		return s[:len(civil.DateLayout)]
	}
	return s
}
