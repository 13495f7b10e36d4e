package render

import "github.com/okian/eventboard/internal/domain/model"

// Item is one display block handed to the calendar widget. Start and End are
// either an ISO date (all-day) or a local date-time "YYYY-MM-DDTHH:MM:SS".
// End is exclusive when it is a bare date.
type Item struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end,omitempty"`
	AllDay          bool   `json:"allDay"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	TextColor       string `json:"textColor"`
	ExtendedProps   Props  `json:"extendedProps"`

	// Span is the resolved calendar extent, used by exporters.
	Span Span `json:"-"`
}

// Props carries display metadata and the originating records.
type Props struct {
	Location       string              `json:"location"`
	MainContact    string              `json:"mainContact,omitempty"`
	ContactInfo    string              `json:"contactInfo,omitempty"`
	ContactPersons []string            `json:"contactPersons"`
	Time           string              `json:"time,omitempty"`
	OriginalEvent  model.EventRecord   `json:"originalEvent"`
	EventSequence  []model.EventRecord `json:"eventSequence"`
}

// Span is the inclusive day range an item covers plus its parsed clocks.
type Span struct {
	FirstDate  string
	LastDate   string
	StartClock string
	EndClock   string
	Raw        string
}
