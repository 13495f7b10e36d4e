package render_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/eventboard/internal/domain/grouping"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/internal/domain/render"
	. "github.com/smartystreets/goconvey/convey"
)

func sequence(name, location, timeField string, dates ...string) grouping.Sequence {
	records := make([]model.EventRecord, 0, len(dates))
	for i, d := range dates {
		records = append(records, model.EventRecord{
			ID:       name + "-" + string(rune('a'+i)),
			Name:     name,
			Location: location,
			Date:     d,
			Time:     timeField,
		})
	}
	seqs := grouping.Group(records)
	So(seqs, ShouldHaveLength, 1)
	return seqs[0]
}

func format(seq grouping.Sequence, mode render.Mode) []render.Item {
	items, err := render.Format(seq, mode, render.DefaultPalette())
	So(err, ShouldBeNil)
	return items
}

func TestSpanningMode(t *testing.T) {
	Convey("Given sequences in spanning mode", t, func() {
		Convey("When a three-day run has a time range", func() {
			items := format(sequence("Konzert", "Aula", "18:00-20:00", "2024-05-01", "2024-05-02", "2024-05-03"), render.ModeSpanning)

			Convey("Then one item spans to the end clock on the last day", func() {
				So(items, ShouldHaveLength, 1)
				it := items[0]
				So(it.ID, ShouldEqual, "Konzert-a")
				So(it.Title, ShouldEqual, "Konzert")
				So(it.Start, ShouldEqual, "2024-05-01T18:00:00")
				So(it.End, ShouldEqual, "2024-05-03T20:00:00")
				So(it.AllDay, ShouldBeFalse)
				So(it.ExtendedProps.EventSequence, ShouldHaveLength, 3)
				So(it.ExtendedProps.OriginalEvent.ID, ShouldEqual, "Konzert-a")
				So(it.Span.LastDate, ShouldEqual, "2024-05-03")
			})
		})

		Convey("When a single day has a time range", func() {
			items := format(sequence("Probe", "Aula", "9:00-10:30", "2024-05-01"), render.ModeSpanning)

			Convey("Then start and end share the date", func() {
				So(items[0].Start, ShouldEqual, "2024-05-01T09:00:00")
				So(items[0].End, ShouldEqual, "2024-05-01T10:30:00")
			})
		})

		Convey("When a single record has no time", func() {
			items := format(sequence("Tag", "Hof", "", "2024-05-01"), render.ModeSpanning)

			Convey("Then the item is all-day with no end", func() {
				So(items[0].AllDay, ShouldBeTrue)
				So(items[0].Start, ShouldEqual, "2024-05-01")
				So(items[0].End, ShouldBeEmpty)
			})
		})

		Convey("When a multi-day run has no time", func() {
			items := format(sequence("Fahrt", "Bus", "", "2024-05-30", "2024-05-31"), render.ModeSpanning)

			Convey("Then the end is the exclusive next day", func() {
				So(items[0].AllDay, ShouldBeTrue)
				So(items[0].Start, ShouldEqual, "2024-05-30")
				So(items[0].End, ShouldEqual, "2024-06-01")
			})
		})

		Convey("When only a start clock is given", func() {
			single := format(sequence("Treffen", "Hof", "19:00", "2024-05-01"), render.ModeSpanning)
			multi := format(sequence("Treffen", "Hof", "19:00", "2024-05-01", "2024-05-02"), render.ModeSpanning)

			Convey("Then a single day has no end and a run ends on the exclusive day", func() {
				So(single[0].Start, ShouldEqual, "2024-05-01T19:00:00")
				So(single[0].End, ShouldBeEmpty)
				So(single[0].AllDay, ShouldBeFalse)
				So(multi[0].End, ShouldEqual, "2024-05-03")
			})
		})

		Convey("When the time text does not match the clock pattern", func() {
			items := format(sequence("Feier", "Hof", "abends", "2024-05-01"), render.ModeSpanning)

			Convey("Then the raw text is appended to the start date", func() {
				So(items[0].Start, ShouldEqual, "2024-05-01Tabends:00")
				So(items[0].End, ShouldBeEmpty)
				So(items[0].AllDay, ShouldBeFalse)
				So(items[0].Span.Raw, ShouldEqual, "abends")
			})
		})
	})
}

func TestPerDayMode(t *testing.T) {
	Convey("Given a three-day run in per-day mode", t, func() {
		items := format(sequence("Konzert", "Aula", "18:00-20:00", "2024-05-01", "2024-05-02", "2024-05-03"), render.ModePerDay)

		Convey("Then each record gets its own item on its own date", func() {
			So(items, ShouldHaveLength, 3)
			for i, d := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
				So(items[i].Start, ShouldEqual, d+"T18:00:00")
				So(items[i].End, ShouldEqual, d+"T20:00:00")
				So(items[i].AllDay, ShouldBeFalse)
				So(items[i].ExtendedProps.OriginalEvent.Date, ShouldEqual, d)
				So(items[i].ExtendedProps.EventSequence, ShouldHaveLength, 3)
			}
		})

		Convey("Then all-day runs stay all-day per record", func() {
			allDay := format(sequence("Fahrt", "Bus", "", "2024-05-01", "2024-05-02"), render.ModePerDay)
			So(allDay, ShouldHaveLength, 2)
			So(allDay[1].Start, ShouldEqual, "2024-05-02")
			So(allDay[1].End, ShouldBeEmpty)
			So(allDay[1].AllDay, ShouldBeTrue)
		})
	})
}

func TestFormatErrors(t *testing.T) {
	Convey("Given an unknown mode", t, func() {
		seq := sequence("X", "Y", "", "2024-05-01")
		_, err := render.Format(seq, render.Mode("zoom"), render.DefaultPalette())

		Convey("Then formatting fails", func() {
			So(errors.Is(err, render.ErrUnknownMode), ShouldBeTrue)
		})
	})

	Convey("Given no sequences", t, func() {
		items, err := render.FormatAll(nil, render.ModeSpanning, render.DefaultPalette())

		Convey("Then the result is empty", func() {
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})
	})
}

func TestPalette(t *testing.T) {
	Convey("Given the default palette", t, func() {
		p := render.DefaultPalette()

		Convey("Then the venue matches in any casing", func() {
			for _, loc := range []string{"Aula", "aula", "AULA"} {
				c := p.ColorsFor(loc)
				So(c.Background, ShouldEqual, "#4ade80")
				So(c.Border, ShouldEqual, "#22c55e")
			}
		})

		Convey("Then every other location gets the default pair", func() {
			for _, loc := range []string{"Turnhalle", "Aula 2", ""} {
				c := p.ColorsFor(loc)
				So(c.Background, ShouldEqual, "#60a5fa")
				So(c.Border, ShouldEqual, "#3b82f6")
			}
		})

		Convey("Then formatted items carry the colors and black text", func() {
			items := format(sequence("Konzert", "aula", "", "2024-05-01"), render.ModeSpanning)
			So(items[0].BackgroundColor, ShouldEqual, "#4ade80")
			So(items[0].TextColor, ShouldEqual, "#000000")
		})
	})
}

func TestModes(t *testing.T) {
	Convey("Given widget views", t, func() {
		Convey("Then the month grid spans and other views split by day", func() {
			m, err := render.ModeForView(render.ViewMonth)
			So(err, ShouldBeNil)
			So(m, ShouldEqual, render.ModeSpanning)

			m, _ = render.ModeForView(render.ViewWeek)
			So(m, ShouldEqual, render.ModePerDay)

			m, _ = render.ModeForView(render.ViewList)
			So(m, ShouldEqual, render.ModePerDay)

			_, err = render.ModeForView("year")
			So(errors.Is(err, render.ErrUnknownMode), ShouldBeTrue)
		})

		Convey("Then narrow surfaces degrade the week grid to the list", func() {
			So(render.ViewForWidth(render.ViewWeek, 500, 640), ShouldEqual, render.ViewList)
			So(render.ViewForWidth(render.ViewWeek, 800, 640), ShouldEqual, render.ViewWeek)
			So(render.ViewForWidth(render.ViewWeek, 0, 640), ShouldEqual, render.ViewWeek)
			So(render.ViewForWidth(render.ViewMonth, 500, 640), ShouldEqual, render.ViewMonth)
		})

		Convey("Then modes parse case-insensitively", func() {
			m, err := render.ParseMode(" Per-Day ")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, render.ModePerDay)
			_, err = render.ParseMode("weekly")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestItemJSON(t *testing.T) {
	Convey("Given a rendered all-day item", t, func() {
		items := format(sequence("Tag", "Hof", "", "2024-05-01"), render.ModeSpanning)
		b, err := json.Marshal(items[0])

		Convey("Then the widget fields are present and the span stays internal", func() {
			So(err, ShouldBeNil)
			s := string(b)
			So(s, ShouldContainSubstring, `"allDay":true`)
			So(s, ShouldContainSubstring, `"extendedProps"`)
			So(s, ShouldNotContainSubstring, `"end"`)
			So(s, ShouldNotContainSubstring, "FirstDate")
		})
	})

	Convey("Given the default display configuration", t, func() {
		cfg := render.DefaultDisplayConfig(render.DefaultPalette(), 640)

		Convey("Then it is a Monday-first German calendar", func() {
			So(cfg.Locale, ShouldEqual, "de")
			So(cfg.FirstDay, ShouldEqual, 1)
			So(cfg.Labels.AllDay, ShouldEqual, "Ganztägig")
			So(cfg.Labels.Today, ShouldEqual, "Heute")
			So(cfg.CompactBreakpoint, ShouldEqual, 640)
		})
	})
}
