// Package civil implements calendar-day arithmetic on ISO date strings
// (YYYY-MM-DD) and parsing of 24-hour clock strings.
//
// Dates carry no zone. All arithmetic runs on UTC midnights so that day
// differences never pick up daylight-saving offsets.
package civil

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used on every boundary.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrInvalidDate reports a string that is not a canonical YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses an ISO date into its UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t's calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsDate reports whether s is a canonical ISO date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the signed number of calendar days from a to b.
// Both dates are UTC midnights, so the Unix second difference is an exact
// multiple of a day for any pair of years.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int((tb.Unix() - ta.Unix()) / secondsPerDay), nil
}

// Days lists every calendar day from start to end inclusive, ascending.
// An end before start yields an error.
func Days(start, end string) ([]string, error) {
	n, err := DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidDate, end, start)
	}
	first, _ := ParseDate(start)
	out := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, FormatDate(first.AddDate(0, 0, i)))
	}
	return out, nil
}
