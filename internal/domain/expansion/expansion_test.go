package expansion_test

import (
	"errors"
	"testing"

	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func base() expansion.Request {
	return expansion.Request{
		Name:        "Projektwoche",
		StartDate:   "2024-06-10",
		EndDate:     "2024-06-12",
		MultiDay:    true,
		StartTime:   "08:00",
		EndTime:     "13:00",
		Location:    "Aula",
		MainContact: "Herr Brandt",
		ContactInfo: "0151 000000",
		AddNote:     true,
		Note:        "Beamer mitbringen",
	}
}

func fieldOf(err error) string {
	var ve *expansion.ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func TestExpand(t *testing.T) {
	Convey("Given a three-day request", t, func() {
		plan, err := expansion.Expand(base(), 62)

		Convey("Then one step per day is planned in ascending order", func() {
			So(err, ShouldBeNil)
			So(plan.Dates(), ShouldResemble, []string{"2024-06-10", "2024-06-11", "2024-06-12"})
			for i, s := range plan.Steps {
				So(s.Index, ShouldEqual, i)
			}
		})

		Convey("Then every step shares all fields except the date", func() {
			want := model.EventFields{
				Name:        "Projektwoche",
				Time:        "08:00-13:00",
				Location:    "Aula",
				MainContact: "Herr Brandt",
				ContactInfo: "0151 000000",
			}
			for _, s := range plan.Steps {
				got := s.Fields
				got.Date = ""
				So(got, ShouldResemble, want)
			}
		})

		Convey("Then only the first step carries the note", func() {
			So(plan.Steps[0].Note, ShouldEqual, "Beamer mitbringen")
			So(plan.Steps[1].Note, ShouldBeEmpty)
			So(plan.Steps[2].Note, ShouldBeEmpty)
		})
	})

	Convey("Given a request without the multi-day flag", t, func() {
		req := base()
		req.MultiDay = false
		req.StartTime, req.EndTime = "08:00", "09:00"
		plan, err := expansion.Expand(req, 62)

		Convey("Then the end date is ignored", func() {
			So(err, ShouldBeNil)
			So(plan.Dates(), ShouldResemble, []string{"2024-06-10"})
		})
	})

	Convey("Given a multi-day request without an end date", t, func() {
		req := base()
		req.EndDate = ""
		req.StartTime, req.EndTime = "", ""
		req.AddNote = false
		plan, err := expansion.Expand(req, 62)

		Convey("Then a single all-day record is planned without a note", func() {
			So(err, ShouldBeNil)
			So(plan.Steps, ShouldHaveLength, 1)
			So(plan.Steps[0].Fields.Time, ShouldBeEmpty)
			So(plan.Steps[0].Note, ShouldBeEmpty)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given invalid requests", t, func() {
		Convey("When the end date is before the start date", func() {
			req := base()
			req.StartDate, req.EndDate = "2024-06-12", "2024-06-10"
			plan, err := expansion.Expand(req, 62)

			Convey("Then nothing is planned", func() {
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
				So(fieldOf(err), ShouldEqual, "endDate")
				So(err.Error(), ShouldContainSubstring, "Enddatum")
				So(plan.Steps, ShouldBeEmpty)
			})
		})

		Convey("When a single-day event ends before it starts", func() {
			req := base()
			req.MultiDay = false
			req.StartTime, req.EndTime = "10:00", "09:00"
			err := req.Validate(62)

			Convey("Then the end time is rejected", func() {
				So(fieldOf(err), ShouldEqual, "endTime")
				So(err.Error(), ShouldContainSubstring, "Die Endzeit muss nach der Startzeit liegen")
			})
		})

		Convey("When a single-day event starts and ends at the same time", func() {
			req := base()
			req.MultiDay = false
			req.StartTime, req.EndTime = "9:00", "09:00"

			Convey("Then it is rejected as well", func() {
				So(fieldOf(req.Validate(62)), ShouldEqual, "endTime")
			})
		})

		Convey("When the same times are used on a multi-day event", func() {
			req := base()
			req.StartTime, req.EndTime = "10:00", "09:00"

			Convey("Then the order check does not apply", func() {
				So(req.Validate(62), ShouldBeNil)
			})
		})

		Convey("When required fields are missing or malformed", func() {
			Convey("Then each names its field", func() {
				req := base()
				req.Name = " "
				So(fieldOf(req.Validate(62)), ShouldEqual, "name")

				req = base()
				req.Location = ""
				So(fieldOf(req.Validate(62)), ShouldEqual, "location")

				req = base()
				req.StartDate = "10.06.2024"
				So(fieldOf(req.Validate(62)), ShouldEqual, "startDate")

				req = base()
				req.StartTime = "25:00"
				So(fieldOf(req.Validate(62)), ShouldEqual, "startTime")

				req = base()
				req.Note = ""
				So(fieldOf(req.Validate(62)), ShouldEqual, "note")
			})
		})

		Convey("When the range exceeds the limit", func() {
			req := base()
			req.EndDate = "2024-06-20"

			Convey("Then the end date is rejected", func() {
				So(fieldOf(req.Validate(5)), ShouldEqual, "endDate")
				So(req.Validate(0), ShouldBeNil)
			})
		})
	})
}

func TestTimeString(t *testing.T) {
	Convey("Given clock inputs", t, func() {
		Convey("Then the stored time field is composed from them", func() {
			So(expansion.Request{StartTime: "9:00"}.TimeString(), ShouldEqual, "09:00")
			So(expansion.Request{StartTime: "18:00", EndTime: "20:00"}.TimeString(), ShouldEqual, "18:00-20:00")
			So(expansion.Request{EndTime: "20:00"}.TimeString(), ShouldBeEmpty)
			So(expansion.Request{}.TimeString(), ShouldBeEmpty)
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("Given a widget selection with an exclusive end", t, func() {
		Convey("When three days are selected", func() {
			days, err := expansion.SelectionDays("2024-06-10", "2024-06-13", 62)

			Convey("Then the three days are returned", func() {
				So(err, ShouldBeNil)
				So(days, ShouldResemble, []string{"2024-06-10", "2024-06-11", "2024-06-12"})
			})

			Convey("Then the pre-filled request is multi-day", func() {
				req := expansion.RequestFromSelection(days)
				So(req.StartDate, ShouldEqual, "2024-06-10")
				So(req.EndDate, ShouldEqual, "2024-06-12")
				So(req.MultiDay, ShouldBeTrue)
			})
		})

		Convey("When a single day is selected with date-time values", func() {
			days, err := expansion.SelectionDays("2024-06-10T00:00:00+02:00", "2024-06-11T00:00:00+02:00", 62)

			Convey("Then one day is returned", func() {
				So(err, ShouldBeNil)
				So(days, ShouldResemble, []string{"2024-06-10"})
				So(expansion.RequestFromSelection(days).MultiDay, ShouldBeFalse)
			})
		})

		Convey("When the selection is empty", func() {
			_, err := expansion.SelectionDays("2024-06-10", "2024-06-10", 62)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
				So(fieldOf(err), ShouldEqual, "end")
			})
		})

		Convey("When the selection exceeds the day bound", func() {
			days, err := expansion.SelectionDays("0001-01-01", "9999-12-31", 62)

			Convey("Then it is rejected without listing the days", func() {
				So(days, ShouldBeNil)
				So(errors.Is(err, expansion.ErrValidation), ShouldBeTrue)
				So(fieldOf(err), ShouldEqual, "end")
			})
		})

		Convey("When the selection is exactly as long as the bound", func() {
			days, err := expansion.SelectionDays("2024-06-10", "2024-06-13", 3)

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
				So(days, ShouldHaveLength, 3)
			})
		})
	})
}

func TestValidateFields(t *testing.T) {
	Convey("Given an edit of one record", t, func() {
		f := model.EventFields{Name: "Konzert", Date: "2024-05-01", Location: "Aula", Time: "18:00-20:00"}

		Convey("Then valid fields pass", func() {
			So(expansion.ValidateFields(f), ShouldBeNil)
			f.Time = ""
			So(expansion.ValidateFields(f), ShouldBeNil)
		})

		Convey("Then a time without a clock is rejected", func() {
			f.Time = "abends"
			So(fieldOf(expansion.ValidateFields(f)), ShouldEqual, "time")
		})

		Convey("Then a bad date is rejected", func() {
			f.Date = "2024-13-01"
			So(fieldOf(expansion.ValidateFields(f)), ShouldEqual, "date")
		})
	})
}
