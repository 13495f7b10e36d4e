// Package model contains domain models passed between layers.
package model

import "time"

// EventRecord is one persisted, day-granular event entry.
// A logical multi-day event is stored as one record per day.
type EventRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Date           string   `json:"date"`           // YYYY-MM-DD
	Time           string   `json:"time,omitempty"` // "HH:MM", "HH:MM-HH:MM", free text, or empty for all-day
	Location       string   `json:"location"`
	MainContact    string   `json:"mainContact,omitempty"`
	ContactInfo    string   `json:"contactInfo,omitempty"`
	ContactPersons []string `json:"contactPersons"`
}

// Fields returns the editable fields of the record.
func (r EventRecord) Fields() EventFields {
	return EventFields{
		Name:        r.Name,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		MainContact: r.MainContact,
		ContactInfo: r.ContactInfo,
	}
}

// EventFields carries everything a caller supplies when creating or editing
// a record. Identity and responsibilities are managed separately.
type EventFields struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location"`
	MainContact string `json:"mainContact,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

// Record materialises the fields under the given id.
func (f EventFields) Record(id string) EventRecord {
	return EventRecord{
		ID:             id,
		Name:           f.Name,
		Date:           f.Date,
		Time:           f.Time,
		Location:       f.Location,
		MainContact:    f.MainContact,
		ContactInfo:    f.ContactInfo,
		ContactPersons: []string{},
	}
}

// EventNote is a free-text annotation on a record. EventID is empty once the
// parent record has been deleted.
type EventNote struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}
