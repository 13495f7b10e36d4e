package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/eventboard/internal/adapters/repository"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/internal/domain/render"
	"github.com/okian/eventboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var errBackend = errors.New("backend unavailable")

// flakyStore fails Create once failAt successful creations happened, and
// CreateNote when failNotes is set.
type flakyStore struct {
	repository.Store
	creates   atomic.Int32
	failAt    int32
	failNotes bool
}

func (f *flakyStore) Create(ctx context.Context, fields model.EventFields) (string, error) {
	if f.failAt >= 0 && f.creates.Load() >= f.failAt {
		return "", errBackend
	}
	f.creates.Add(1)
	return f.Store.Create(ctx, fields)
}

func (f *flakyStore) CreateNote(ctx context.Context, eventID, content, author string) (string, error) {
	if f.failNotes {
		return "", errBackend
	}
	return f.Store.CreateNote(ctx, eventID, content, author)
}

// flakyTxStore adds transactions on top of a memory store, failing inside them
// the way flakyStore does.
type flakyTxStore struct {
	*flakyStore
	mem *repository.MemoryStore
}

func (f *flakyTxStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return f.mem.WithinTx(ctx, func(tx repository.Store) error {
		return fn(&flakyStore{Store: tx, failAt: f.failAt, failNotes: f.failNotes})
	})
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func rangeRequest() expansion.Request {
	return expansion.Request{
		Name:        "Projektwoche",
		StartDate:   "2024-06-10",
		EndDate:     "2024-06-12",
		MultiDay:    true,
		StartTime:   "8:00",
		EndTime:     "13:00",
		Location:    "Aula",
		MainContact: "Herr Krause",
		AddNote:     true,
		Note:        "Beamer mitbringen",
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports sensible defaults before start", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["storeDriver"], ShouldEqual, repository.DriverMemory)
			So(stats["maxRangeDays"], ShouldEqual, 62)
			So(svc.DefaultAuthor(), ShouldEqual, "Unknown")
		})

		Convey("Then operations fail until started", func() {
			_, err := svc.ListEvents(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithMaxRangeDays(5),
			service.WithDefaultAuthor("Sekretariat"),
			service.WithDedupeTTL(time.Minute),
			service.WithCompactBreakpoint(800),
		)

		Convey("Then the options are applied", func() {
			So(svc.GetStats()["maxRangeDays"], ShouldEqual, 5)
			So(svc.DefaultAuthor(), ShouldEqual, "Sekretariat")
			So(svc.DisplayConfig().CompactBreakpoint, ShouldEqual, 800)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["totalRecords"], ShouldEqual, 0)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping marks it as stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given an unknown store driver", t, func() {
		svc := service.New(service.WithStoreDriver("postgres", ""))

		Convey("Then start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}

func TestService_CreateEvents(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()

		Convey("When a three-day range is submitted", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "Frau Lang")
			So(err, ShouldBeNil)

			Convey("Then one record per day is created in order", func() {
				So(res.Requested, ShouldEqual, 3)
				So(res.Created, ShouldEqual, 3)
				So(res.Atomic, ShouldBeFalse)
				So([]string{res.Steps[0].Date, res.Steps[1].Date, res.Steps[2].Date},
					ShouldResemble, []string{"2024-06-10", "2024-06-11", "2024-06-12"})

				list, err := svc.ListEvents(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				for _, r := range list {
					So(r.Name, ShouldEqual, "Projektwoche")
					So(r.Time, ShouldEqual, "08:00-13:00")
					So(r.MainContact, ShouldEqual, "Herr Krause")
				}
			})

			Convey("Then only the first record carries the note", func() {
				So(res.Steps[0].NoteID, ShouldNotBeEmpty)
				notes, err := svc.Notes(ctx, res.Steps[0].ID)
				So(err, ShouldBeNil)
				So(notes, ShouldHaveLength, 1)
				So(notes[0].Content, ShouldEqual, "Beamer mitbringen")
				So(notes[0].CreatedBy, ShouldEqual, "Frau Lang")

				for _, st := range res.Steps[1:] {
					So(st.NoteID, ShouldBeEmpty)
					n, err := svc.Notes(ctx, st.ID)
					So(err, ShouldBeNil)
					So(n, ShouldBeEmpty)
				}
			})

			Convey("Then the spanning calendar shows one block", func() {
				cal, err := svc.Calendar(ctx, render.ModeSpanning)
				So(err, ShouldBeNil)
				So(cal.Sequences, ShouldEqual, 1)
				So(cal.Items, ShouldHaveLength, 1)
				So(cal.Items[0].Start, ShouldEqual, "2024-06-10T08:00:00")
				So(cal.Items[0].End, ShouldEqual, "2024-06-12T13:00:00")
			})

			Convey("Then the per-day calendar shows one block per day", func() {
				cal, err := svc.Calendar(ctx, render.ModePerDay)
				So(err, ShouldBeNil)
				So(cal.Items, ShouldHaveLength, 3)
				So(cal.Items[2].Start, ShouldEqual, "2024-06-12T08:00:00")
				So(cal.Items[2].End, ShouldEqual, "2024-06-12T13:00:00")
			})
		})

		Convey("When the end date is before the start date", func() {
			req := rangeRequest()
			req.StartDate, req.EndDate = "2024-06-12", "2024-06-10"
			res, err := svc.CreateEvents(ctx, req, "")

			Convey("Then nothing is created", func() {
				var ve *expansion.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Field, ShouldEqual, "endDate")
				So(res.Steps, ShouldBeEmpty)
				list, _ := svc.ListEvents(ctx)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When a single-day event ends before it starts", func() {
			req := rangeRequest()
			req.MultiDay = false
			req.StartTime, req.EndTime = "10:00", "09:00"
			_, err := svc.CreateEvents(ctx, req, "")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
			})

			Convey("And the same clocks on a multi-day event are accepted", func() {
				req.MultiDay = true
				res, err := svc.CreateEvents(ctx, req, "")
				So(err, ShouldBeNil)
				So(res.Created, ShouldEqual, 3)
			})
		})

		Convey("When no author is given", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "  ")
			So(err, ShouldBeNil)

			Convey("Then the default author signs the note", func() {
				notes, err := svc.Notes(ctx, res.Steps[0].ID)
				So(err, ShouldBeNil)
				So(notes[0].CreatedBy, ShouldEqual, "Unknown")
			})
		})
	})

	Convey("Given a store failing on the second creation", t, func() {
		mem := repository.NewMemoryStore()
		svc := started(service.WithStore(&flakyStore{Store: mem, failAt: 1}))
		defer svc.Stop()

		Convey("When a three-day range is submitted", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "")

			Convey("Then the first day stays and the result says so", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
				So(errors.Is(err, errBackend), ShouldBeTrue)
				So(res.Created, ShouldEqual, 1)
				So(res.Steps[0].Status, ShouldEqual, service.StepCreated)
				So(res.Steps[1].Status, ShouldEqual, service.StepFailed)
				So(res.Steps[1].Error, ShouldContainSubstring, "backend unavailable")
				So(res.Steps[2].Status, ShouldEqual, service.StepSkipped)
				So(mem.Count(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a store failing to attach notes", t, func() {
		mem := repository.NewMemoryStore()
		svc := started(service.WithStore(&flakyStore{Store: mem, failAt: -1, failNotes: true}))
		defer svc.Stop()

		Convey("When a range with a note is submitted", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "")

			Convey("Then the first record exists and the rest is skipped", func() {
				So(err, ShouldNotBeNil)
				So(res.Created, ShouldEqual, 1)
				So(res.Steps[0].Status, ShouldEqual, service.StepCreated)
				So(res.Steps[0].Error, ShouldContainSubstring, "note")
				So(res.Steps[1].Status, ShouldEqual, service.StepSkipped)
				So(mem.Count(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given atomic batches on a transactional store failing mid-batch", t, func() {
		mem := repository.NewMemoryStore()
		st := &flakyTxStore{flakyStore: &flakyStore{Store: mem, failAt: 2}, mem: mem}
		svc := started(service.WithStore(st), service.WithAtomicBatches(true))
		defer svc.Stop()

		Convey("When a three-day range is submitted", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "")

			Convey("Then nothing is persisted", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
				So(res.Atomic, ShouldBeTrue)
				So(res.Created, ShouldEqual, 0)
				So(res.Steps[0].Status, ShouldEqual, service.StepRolledBack)
				So(res.Steps[1].Status, ShouldEqual, service.StepRolledBack)
				So(res.Steps[2].Status, ShouldEqual, service.StepFailed)
				So(mem.Count(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given atomic batches on a healthy memory store", t, func() {
		svc := started(service.WithAtomicBatches(true))
		defer svc.Stop()

		Convey("Then every day is committed", func() {
			res, err := svc.CreateEvents(ctx, rangeRequest(), "")
			So(err, ShouldBeNil)
			So(res.Atomic, ShouldBeTrue)
			So(res.Created, ShouldEqual, 3)
			So(res.IDs(), ShouldHaveLength, 3)
			list, err := svc.ListEvents(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
		})
	})
}

func TestService_EventOperations(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a few records", t, func() {
		mem := repository.NewMemoryStore()
		svc := started(service.WithStore(mem))
		defer svc.Stop()

		create := func(name, date, clock string) string {
			id, err := mem.Create(ctx, model.EventFields{Name: name, Date: date, Time: clock, Location: "Raum 1"})
			So(err, ShouldBeNil)
			return id
		}
		allDay := create("Wandertag", "2024-05-02", "")
		late := create("Chor", "2024-05-02", "18:00")
		early := create("Sport", "2024-05-02", "9:30-11:00")
		prev := create("Elternabend", "2024-05-01", "")

		Convey("When listing", func() {
			list, err := svc.ListEvents(ctx)
			So(err, ShouldBeNil)

			Convey("Then records are ordered by date, then by start clock, timed first", func() {
				ids := make([]string, len(list))
				for i, r := range list {
					ids[i] = r.ID
				}
				So(ids, ShouldResemble, []string{prev, early, late, allDay})
			})
		})

		Convey("When editing a record", func() {
			rec, err := svc.UpdateEvent(ctx, late, model.EventFields{
				Name: " Chorprobe ", Date: "2024-05-03", Time: "19:00-20:30", Location: "Aula",
			})

			Convey("Then the trimmed fields are stored", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "Chorprobe")
				So(rec.Date, ShouldEqual, "2024-05-03")
				So(rec.Location, ShouldEqual, "Aula")
			})
		})

		Convey("When an edit carries an unparseable time", func() {
			_, err := svc.UpdateEvent(ctx, late, model.EventFields{
				Name: "Chor", Date: "2024-05-02", Time: "abends", Location: "Aula",
			})

			Convey("Then it is rejected on the time field", func() {
				var ve *expansion.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Field, ShouldEqual, "time")
			})
		})

		Convey("When editing a missing record", func() {
			_, err := svc.UpdateEvent(ctx, "nope", model.EventFields{Name: "x", Date: "2024-05-02", Location: "y"})

			Convey("Then it is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When assigning responsibilities", func() {
			rec, err := svc.AssignResponsibilities(ctx, early, []string{" Anna ", "", "Ben", "Anna"})

			Convey("Then blanks and repeats are dropped", func() {
				So(err, ShouldBeNil)
				So(rec.ContactPersons, ShouldResemble, []string{"Anna", "Ben"})
			})
		})

		Convey("When working with notes", func() {
			first, err := svc.AddNote(ctx, early, "Hallenschlüssel abholen", "Frau Lang")
			So(err, ShouldBeNil)
			_, err = svc.AddNote(ctx, early, "Bälle prüfen", "")
			So(err, ShouldBeNil)

			Convey("Then they are listed newest first", func() {
				notes, err := svc.Notes(ctx, early)
				So(err, ShouldBeNil)
				So(notes, ShouldHaveLength, 2)
				So(notes[0].Content, ShouldEqual, "Bälle prüfen")
				So(notes[0].CreatedBy, ShouldEqual, "Unknown")
				So(notes[1].ID, ShouldEqual, first.ID)
			})

			Convey("Then an empty note is rejected", func() {
				_, err := svc.AddNote(ctx, early, "   ", "")
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
			})

			Convey("Then a note can be deleted", func() {
				So(svc.DeleteNote(ctx, first.ID), ShouldBeNil)
				notes, err := svc.Notes(ctx, early)
				So(err, ShouldBeNil)
				So(notes, ShouldHaveLength, 1)
			})
		})

		Convey("When deleting a record", func() {
			So(svc.DeleteEvent(ctx, prev), ShouldBeNil)

			Convey("Then it is gone", func() {
				_, err := svc.GetEvent(ctx, prev)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And deleting it again is not found", func() {
				err := svc.DeleteEvent(ctx, prev)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Calendar(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := started(service.WithLocation(time.UTC), service.WithMaxRangeDays(10))
		defer svc.Stop()

		Convey("When resolving views", func() {
			Convey("Then the month grid spans", func() {
				view, mode, err := svc.ResolveMode("", 0)
				So(err, ShouldBeNil)
				So(view, ShouldEqual, render.ViewMonth)
				So(mode, ShouldEqual, render.ModeSpanning)
			})

			Convey("Then a narrow week view becomes a per-day list", func() {
				view, mode, err := svc.ResolveMode(render.ViewWeek, 400)
				So(err, ShouldBeNil)
				So(view, ShouldEqual, render.ViewList)
				So(mode, ShouldEqual, render.ModePerDay)
			})

			Convey("Then unknown views fail", func() {
				_, _, err := svc.ResolveMode("year", 0)
				So(errors.Is(err, render.ErrUnknownMode), ShouldBeTrue)
			})
		})

		Convey("When selecting days", func() {
			sel, err := svc.SelectDays(ctx, "2024-06-10", "2024-06-13")

			Convey("Then the exclusive end is dropped", func() {
				So(err, ShouldBeNil)
				So(sel.Days, ShouldResemble, []string{"2024-06-10", "2024-06-11", "2024-06-12"})
				So(sel.Draft.MultiDay, ShouldBeTrue)
				So(sel.Draft.EndDate, ShouldEqual, "2024-06-12")
			})

			Convey("Then an empty or overlong selection is rejected", func() {
				_, err := svc.SelectDays(ctx, "2024-06-10", "2024-06-10")
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
				_, err = svc.SelectDays(ctx, "2024-06-01", "2024-06-30")
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
				_, err = svc.SelectDays(ctx, "0001-01-01", "9999-12-31")
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When exporting", func() {
			_, err := svc.CreateEvents(ctx, rangeRequest(), "")
			So(err, ShouldBeNil)
			out, err := svc.ExportICS(ctx)

			Convey("Then the feed holds the spanning block", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "BEGIN:VCALENDAR")
				So(out, ShouldContainSubstring, "SUMMARY:Projektwoche")
			})
		})
	})
}
