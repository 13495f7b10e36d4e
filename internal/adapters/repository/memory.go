package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/eventboard/internal/domain/model"
)

func newID() string { return uuid.NewString() }

type memEvent struct {
	rec model.EventRecord
	seq int64
}

type memNote struct {
	note model.EventNote
	seq  int64
}

// memState holds the data without any locking. Callers serialise access.
type memState struct {
	events map[string]memEvent
	notes  map[string]memNote
	seq    int64
}

func newMemState() *memState {
	return &memState{
		events: make(map[string]memEvent),
		notes:  make(map[string]memNote),
	}
}

func (st *memState) clone() *memState {
	c := &memState{
		events: make(map[string]memEvent, len(st.events)),
		notes:  make(map[string]memNote, len(st.notes)),
		seq:    st.seq,
	}
	for k, v := range st.events {
		v.rec.ContactPersons = append([]string(nil), v.rec.ContactPersons...)
		c.events[k] = v
	}
	for k, v := range st.notes {
		c.notes[k] = v
	}
	return c
}

func (st *memState) next() int64 {
	st.seq++
	return st.seq
}

func (st *memState) list() []model.EventRecord {
	entries := make([]memEvent, 0, len(st.events))
	for _, e := range st.events {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].rec.Date != entries[j].rec.Date {
			return entries[i].rec.Date < entries[j].rec.Date
		}
		return entries[i].seq < entries[j].seq
	})
	out := make([]model.EventRecord, len(entries))
	for i, e := range entries {
		out[i] = copyRecord(e.rec)
	}
	return out
}

func (st *memState) get(id string) (model.EventRecord, error) {
	e, ok := st.events[id]
	if !ok {
		return model.EventRecord{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return copyRecord(e.rec), nil
}

func (st *memState) create(o options, f model.EventFields) string {
	id := o.newID()
	st.events[id] = memEvent{rec: f.Record(id), seq: st.next()}
	return id
}

func (st *memState) update(id string, f model.EventFields) error {
	e, ok := st.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	persons := e.rec.ContactPersons
	e.rec = f.Record(id)
	e.rec.ContactPersons = persons
	st.events[id] = e
	return nil
}

func (st *memState) updateResponsibilities(id string, names []string) error {
	e, ok := st.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	e.rec.ContactPersons = append([]string{}, names...)
	st.events[id] = e
	return nil
}

func (st *memState) delete(id string) error {
	if _, ok := st.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(st.events, id)
	for k, n := range st.notes {
		if n.note.EventID == id {
			n.note.EventID = ""
			st.notes[k] = n
		}
	}
	return nil
}

func (st *memState) listByEvent(eventID string) []model.EventNote {
	var entries []memNote
	for _, n := range st.notes {
		if n.note.EventID == eventID {
			entries = append(entries, n)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.note.CreatedAt.Equal(b.note.CreatedAt) {
			return a.note.CreatedAt.After(b.note.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]model.EventNote, len(entries))
	for i, n := range entries {
		out[i] = n.note
	}
	return out
}

func (st *memState) createNote(o options, eventID, content, author string) (string, error) {
	if _, ok := st.events[eventID]; !ok {
		return "", fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	id := o.newID()
	st.notes[id] = memNote{
		note: model.EventNote{
			ID:        id,
			EventID:   eventID,
			Content:   content,
			CreatedAt: o.now().UTC(),
			CreatedBy: author,
		},
		seq: st.next(),
	}
	return id, nil
}

func (st *memState) deleteNote(id string) error {
	if _, ok := st.notes[id]; !ok {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	delete(st.notes, id)
	return nil
}

func copyRecord(r model.EventRecord) model.EventRecord {
	r.ContactPersons = append([]string{}, r.ContactPersons...)
	return r
}

// MemoryStore keeps events and notes in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	st   *memState
	opts options
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{st: newMemState(), opts: o}
}

// List returns every record ordered by date, then insertion.
func (s *MemoryStore) List(_ context.Context) ([]model.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.list(), nil
}

// Get returns the record with id.
func (s *MemoryStore) Get(_ context.Context, id string) (model.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.get(id)
}

// Create stores a new record and returns its id.
func (s *MemoryStore) Create(_ context.Context, f model.EventFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.create(s.opts, f), nil
}

// Update replaces the editable fields of a record.
func (s *MemoryStore) Update(_ context.Context, id string, f model.EventFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.update(id, f)
}

// UpdateResponsibilities replaces the contact persons of a record.
func (s *MemoryStore) UpdateResponsibilities(_ context.Context, id string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateResponsibilities(id, names)
}

// Delete removes a record and detaches its notes.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.delete(id)
}

// ListByEvent returns the notes of a record, newest first.
func (s *MemoryStore) ListByEvent(_ context.Context, eventID string) ([]model.EventNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listByEvent(eventID), nil
}

// CreateNote attaches a note to a record.
func (s *MemoryStore) CreateNote(_ context.Context, eventID, content, author string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createNote(s.opts, eventID, content, author)
}

// DeleteNote removes a note.
func (s *MemoryStore) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.deleteNote(id)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Count returns the number of stored records.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.st.events)
}

// WithinTx runs fn against a private copy of the data and publishes the copy
// only if fn succeeds. Other writers block until the transaction ends.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.st.clone()
	if err := fn(&memTx{st: staged, opts: s.opts}); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// memTx is the Store handed to a transaction body. The parent lock is held
// for its whole lifetime.
type memTx struct {
	st   *memState
	opts options
}

func (t *memTx) List(context.Context) ([]model.EventRecord, error) { return t.st.list(), nil }

func (t *memTx) Get(_ context.Context, id string) (model.EventRecord, error) { return t.st.get(id) }

func (t *memTx) Create(_ context.Context, f model.EventFields) (string, error) {
	return t.st.create(t.opts, f), nil
}

func (t *memTx) Update(_ context.Context, id string, f model.EventFields) error {
	return t.st.update(id, f)
}

func (t *memTx) UpdateResponsibilities(_ context.Context, id string, names []string) error {
	return t.st.updateResponsibilities(id, names)
}

func (t *memTx) Delete(_ context.Context, id string) error { return t.st.delete(id) }

func (t *memTx) ListByEvent(_ context.Context, eventID string) ([]model.EventNote, error) {
	return t.st.listByEvent(eventID), nil
}

func (t *memTx) CreateNote(_ context.Context, eventID, content, author string) (string, error) {
	return t.st.createNote(t.opts, eventID, content, author)
}

func (t *memTx) DeleteNote(_ context.Context, id string) error { return t.st.deleteNote(id) }

func (t *memTx) Close() error { return nil }
