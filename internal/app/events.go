package service

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

const msgNoteEmpty = "Die Notiz darf nicht leer sein"

// ListEvents returns every record for the list view: by date, then by start
// clock. Timed records come before all-day ones on the same date.
func (s *Service) ListEvents(ctx context.Context) ([]model.EventRecord, error) {
	st, err := s.backend()
	if err != nil {
		return nil, err
	}
	records, err := st.List(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, "list", err)
	}
	SortForList(records)
	return records, nil
}

// SortForList orders records for display in place.
func SortForList(records []model.EventRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		ta, tb := civil.ParseTimeRange(a.Time), civil.ParseTimeRange(b.Time)
		switch {
		case ta.Matched() && tb.Matched():
			return civil.ClockMinutes(ta.Start) < civil.ClockMinutes(tb.Start)
		case ta.Matched():
			return true
		default:
			return false
		}
	})
}

// GetEvent returns one record.
func (s *Service) GetEvent(ctx context.Context, id string) (model.EventRecord, error) {
	st, err := s.backend()
	if err != nil {
		return model.EventRecord{}, err
	}
	rec, err := st.Get(ctx, id)
	if err != nil {
		return model.EventRecord{}, s.storageFailure(ctx, "get", err)
	}
	return rec, nil
}

// UpdateEvent replaces the editable fields of one record.
func (s *Service) UpdateEvent(ctx context.Context, id string, f model.EventFields) (model.EventRecord, error) {
	st, err := s.backend()
	if err != nil {
		return model.EventRecord{}, err
	}
	f = trimFields(f)
	if err := expansion.ValidateFields(f); err != nil {
		s.rejected(ctx, err)
		return model.EventRecord{}, err
	}
	if err := st.Update(ctx, id, f); err != nil {
		return model.EventRecord{}, s.storageFailure(ctx, "update", err)
	}
	rec, err := st.Get(ctx, id)
	if err != nil {
		return model.EventRecord{}, s.storageFailure(ctx, "get", err)
	}
	metrics.RecordEventUpdated()
	s.logger.Info(ctx, "event updated", logger.String("id", id), logger.String("date", rec.Date))
	return rec, nil
}

// AssignResponsibilities replaces the responsible persons of one record.
// Blank and repeated names are dropped.
func (s *Service) AssignResponsibilities(ctx context.Context, id string, names []string) (model.EventRecord, error) {
	st, err := s.backend()
	if err != nil {
		return model.EventRecord{}, err
	}
	clean := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		clean = append(clean, n)
	}
	if err := st.UpdateResponsibilities(ctx, id, clean); err != nil {
		return model.EventRecord{}, s.storageFailure(ctx, "responsibilities", err)
	}
	rec, err := st.Get(ctx, id)
	if err != nil {
		return model.EventRecord{}, s.storageFailure(ctx, "get", err)
	}
	metrics.RecordResponsibilityUpdate()
	s.logger.Info(ctx, "responsibilities updated", logger.String("id", id), logger.Strings("persons", clean))
	return rec, nil
}

// DeleteEvent removes one record. Its notes stay, detached.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	st, err := s.backend()
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, id); err != nil {
		return s.storageFailure(ctx, "delete", err)
	}
	metrics.RecordEventDeleted()
	s.logger.Info(ctx, "event deleted", logger.String("id", id))
	return nil
}

// Notes lists the notes of a record, newest first.
func (s *Service) Notes(ctx context.Context, eventID string) ([]model.EventNote, error) {
	st, err := s.backend()
	if err != nil {
		return nil, err
	}
	notes, err := st.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, s.storageFailure(ctx, "list_notes", err)
	}
	return notes, nil
}

// AddNote attaches a note to a record. An empty author falls back to the
// configured default.
func (s *Service) AddNote(ctx context.Context, eventID, content, author string) (model.EventNote, error) {
	st, err := s.backend()
	if err != nil {
		return model.EventNote{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		err := &expansion.ValidationError{Field: "content", Message: msgNoteEmpty}
		s.rejected(ctx, err)
		return model.EventNote{}, err
	}
	author = s.authorOrDefault(author)
	id, err := st.CreateNote(ctx, eventID, content, author)
	if err != nil {
		return model.EventNote{}, s.storageFailure(ctx, "create_note", err)
	}
	metrics.RecordNoteCreated()
	s.logger.Info(ctx, "note created", logger.String("eventId", eventID), logger.String("id", id))

	notes, err := st.ListByEvent(ctx, eventID)
	if err != nil {
		return model.EventNote{}, s.storageFailure(ctx, "list_notes", err)
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.EventNote{ID: id, EventID: eventID, Content: content, CreatedBy: author, CreatedAt: s.now().UTC()}, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	st, err := s.backend()
	if err != nil {
		return err
	}
	if err := st.DeleteNote(ctx, id); err != nil {
		return s.storageFailure(ctx, "delete_note", err)
	}
	metrics.RecordNoteDeleted()
	s.logger.Info(ctx, "note deleted", logger.String("id", id))
	return nil
}

func (s *Service) authorOrDefault(author string) string {
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	return s.defaultAuthor
}

// rejected logs and counts a validation failure.
func (s *Service) rejected(ctx context.Context, err error) {
	field := "unknown"
	if ve, ok := err.(*expansion.ValidationError); ok {
		field = ve.Field
	}
	metrics.RecordValidationError(field)
	s.logger.Debug(ctx, "submission rejected", logger.String("field", field), logger.Error(err))
}

func trimFields(f model.EventFields) model.EventFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Location = strings.TrimSpace(f.Location)
	f.MainContact = strings.TrimSpace(f.MainContact)
	f.ContactInfo = strings.TrimSpace(f.ContactInfo)
	return f
}
