// Package repository provides event and note storage: an in-memory store and
// a gorm-backed store for sqlite and mysql.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/eventboard/internal/domain/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
)

// Supported store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// EventStore persists event records. Concurrent writers follow
// last-write-wins.
type EventStore interface {
	// List returns every record ordered by date, then creation.
	List(ctx context.Context) ([]model.EventRecord, error)
	// Get returns one record or ErrNotFound.
	Get(ctx context.Context, id string) (model.EventRecord, error)
	// Create stores a new record and returns its assigned id.
	Create(ctx context.Context, fields model.EventFields) (string, error)
	// Update replaces the editable fields of a record.
	Update(ctx context.Context, id string, fields model.EventFields) error
	// UpdateResponsibilities replaces the responsible persons of a record.
	UpdateResponsibilities(ctx context.Context, id string, names []string) error
	// Delete removes a record and detaches its notes.
	Delete(ctx context.Context, id string) error
}

// NoteStore persists notes attached to event records.
type NoteStore interface {
	// ListByEvent returns the notes of a record, newest first.
	ListByEvent(ctx context.Context, eventID string) ([]model.EventNote, error)
	// CreateNote attaches a note to an existing record.
	CreateNote(ctx context.Context, eventID, content, author string) (string, error)
	// DeleteNote removes a note.
	DeleteNote(ctx context.Context, noteID string) error
}

// Store combines both collaborators.
type Store interface {
	EventStore
	NoteStore
	Close() error
}

// Transactor is implemented by stores that can apply several writes
// atomically. fn receives a Store bound to the transaction; returning an
// error discards every write made through it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// Open creates the store selected by driver.
func Open(driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return NewGormStore(sqlite.Open(dsn), opts...)
	case DriverMySQL:
		return NewGormStore(mysql.Open(dsn), opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
