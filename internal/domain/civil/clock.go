package civil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeRangePattern matches "H:MM" or "HH:MM", optionally followed by a dash
// and a second clock. It is not anchored: the first clock-looking run in the
// text wins.
var timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})(?:\s*-\s*(\d{1,2}:\d{2}))?`)

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// TimeRange is the parsed form of a record's free-text time field.
type TimeRange struct {
	// Start and End are zero-padded "HH:MM" clocks. End may be empty.
	Start string
	End   string
	// Raw holds non-empty text that did not match the clock pattern.
	Raw string
}

// AllDay reports whether the range carries no time information at all.
func (r TimeRange) AllDay() bool {
	return r.Start == "" && r.Raw == ""
}

// Matched reports whether a structured start clock was found.
func (r TimeRange) Matched() bool {
	return r.Start != ""
}

// HasEnd reports whether a structured end clock was found.
func (r TimeRange) HasEnd() bool {
	return r.End != ""
}

// ParseTimeRange interprets a free-text time field.
//
//	"", "   "       -> all-day
//	"9:00"          -> Start 09:00
//	"18:00 - 20:00" -> Start 18:00, End 20:00
//	"abends"        -> Raw "abends"
func ParseTimeRange(s string) TimeRange {
	text := strings.TrimSpace(s)
	if text == "" {
		return TimeRange{}
	}
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return TimeRange{Raw: text}
	}
	r := TimeRange{Start: PadClock(m[1])}
	if m[2] != "" {
		r.End = PadClock(m[2])
	}
	return r
}

// PadClock left-pads the hour of an "H:MM" clock to two digits.
func PadClock(c string) string {
	if len(c) == len("9:00") {
		return "0" + c
	}
	return c
}

// ValidClock reports whether c is a 24-hour "H:MM" or "HH:MM" clock.
func ValidClock(c string) bool {
	if !clockPattern.MatchString(c) {
		return false
	}
	h, m, err := clockParts(c)
	return err == nil && h < 24 && m < 60
}

// CompareClocks orders two clocks; both are padded before comparison.
func CompareClocks(a, b string) int {
	return strings.Compare(PadClock(a), PadClock(b))
}

// ClockMinutes returns the minutes since midnight of a valid clock, or -1.
func ClockMinutes(c string) int {
	h, m, err := clockParts(c)
	if err != nil {
		return -1
	}
	return h*60 + m
}

func clockParts(c string) (int, int, error) {
	hs, ms, ok := strings.Cut(c, ":")
	if !ok {
		return 0, 0, fmt.Errorf("clock %q: missing colon", c)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q: %w", c, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q: %w", c, err)
	}
	return h, m, nil
}
