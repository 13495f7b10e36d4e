package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/eventboard/internal/domain/model"
	"gorm.io/gorm"
)

// eventRow is the events table. Optional text columns are NULL when empty.
type eventRow struct {
	ID             string   `gorm:"primaryKey;size:36"`
	Name           string   `gorm:"size:255;not null;index:idx_events_name_location"`
	Location       string   `gorm:"size:255;not null;index:idx_events_name_location"`
	Date           string   `gorm:"size:10;not null;index"`
	Time           *string  `gorm:"size:64"`
	MainContact    *string  `gorm:"size:255"`
	ContactInfo    *string  `gorm:"size:255"`
	ContactPersons []string `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (eventRow) TableName() string { return "events" }

func (r eventRow) record() model.EventRecord {
	persons := r.ContactPersons
	if persons == nil {
		persons = []string{}
	}
	return model.EventRecord{
		ID:             r.ID,
		Name:           r.Name,
		Date:           r.Date,
		Time:           deref(r.Time),
		Location:       r.Location,
		MainContact:    deref(r.MainContact),
		ContactInfo:    deref(r.ContactInfo),
		ContactPersons: persons,
	}
}

// noteRow is the event_notes table. EventID is NULL once the event is gone.
type noteRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	EventID   *string   `gorm:"size:36;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedBy string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}

func (noteRow) TableName() string { return "event_notes" }

func (r noteRow) note() model.EventNote {
	return model.EventNote{
		ID:        r.ID,
		EventID:   deref(r.EventID),
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
		CreatedBy: r.CreatedBy,
	}
}

// GormStore persists events and notes through gorm.
type GormStore struct {
	db   *gorm.DB
	opts options
}

// NewGormStore opens the database behind dialector and migrates the schema.
func NewGormStore(dialector gorm.Dialector, opts ...Option) (*GormStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(o),
		NowFunc: func() time.Time {
			return o.now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w: %w", dialector.Name(), ErrStorage, err)
	}
	if dialector.Name() == DriverSQLite {
		// sqlite allows one writer; a single connection avoids lock errors.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w: %w", ErrStorage, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&eventRow{}, &noteRow{}); err != nil {
		return nil, fmt.Errorf("migrate %s database: %w: %w", dialector.Name(), ErrStorage, err)
	}
	return &GormStore{db: db, opts: o}, nil
}

// List returns every row ordered by date, then insertion.
func (s *GormStore) List(ctx context.Context) ([]model.EventRecord, error) {
	var rows []eventRow
	if err := s.db.WithContext(ctx).Order("date ASC, created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrap("list events", err)
	}
	out := make([]model.EventRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// Get loads one record.
func (s *GormStore) Get(ctx context.Context, id string) (model.EventRecord, error) {
	var row eventRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return model.EventRecord{}, wrap("get event "+id, err)
	}
	return row.record(), nil
}

// Create inserts a record and returns its generated id.
func (s *GormStore) Create(ctx context.Context, f model.EventFields) (string, error) {
	row := eventRow{
		ID:             s.opts.newID(),
		Name:           f.Name,
		Location:       f.Location,
		Date:           f.Date,
		Time:           ptr(f.Time),
		MainContact:    ptr(f.MainContact),
		ContactInfo:    ptr(f.ContactInfo),
		ContactPersons: []string{},
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", wrap("create event", err)
	}
	return row.ID, nil
}

// Update overwrites the editable columns of a record.
func (s *GormStore) Update(ctx context.Context, id string, f model.EventFields) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, id); err != nil {
			return err
		}
		err := tx.Model(&eventRow{}).Where("id = ?", id).Updates(map[string]any{
			"name":         f.Name,
			"location":     f.Location,
			"date":         f.Date,
			"time":         ptr(f.Time),
			"main_contact": ptr(f.MainContact),
			"contact_info": ptr(f.ContactInfo),
		}).Error
		return wrap("update event "+id, err)
	})
}

// UpdateResponsibilities stores the contact persons as JSON.
func (s *GormStore) UpdateResponsibilities(ctx context.Context, id string, names []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row eventRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return wrap("get event "+id, err)
		}
		row.ContactPersons = append([]string{}, names...)
		return wrap("update responsibilities "+id, tx.Save(&row).Error)
	})
}

// Delete removes a record and nulls the event id of its notes in the same transaction.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&eventRow{})
		if res.Error != nil {
			return wrap("delete event "+id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		err := tx.Model(&noteRow{}).Where("event_id = ?", id).Update("event_id", nil).Error
		return wrap("detach notes of "+id, err)
	})
}

// ListByEvent returns the notes of a record, newest first.
func (s *GormStore) ListByEvent(ctx context.Context, eventID string) ([]model.EventNote, error) {
	var rows []noteRow
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap("list notes of "+eventID, err)
	}
	out := make([]model.EventNote, len(rows))
	for i, r := range rows {
		out[i] = r.note()
	}
	return out, nil
}

// CreateNote inserts a note for an existing record.
func (s *GormStore) CreateNote(ctx context.Context, eventID, content, author string) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, eventID); err != nil {
			return err
		}
		row := noteRow{
			ID:        s.opts.newID(),
			EventID:   &eventID,
			Content:   content,
			CreatedBy: author,
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrap("create note", err)
		}
		id = row.ID
		return nil
	})
	return id, err
}

// DeleteNote removes a note.
func (s *GormStore) DeleteNote(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&noteRow{})
	if res.Error != nil {
		return wrap("delete note "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	return nil
}

// WithinTx runs fn inside one database transaction.
func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, opts: s.opts})
	})
}

// Count returns the number of stored records.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&eventRow{}).Count(&n).Error; err != nil {
		return 0, wrap("count events", err)
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("close", err)
	}
	return sqlDB.Close()
}

func exists(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&eventRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return wrap("get event "+id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// wrap classifies a gorm error. nil stays nil.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStorage):
		return err
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
	}
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
