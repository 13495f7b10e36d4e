package seeding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/eventboard/internal/domain/expansion"
	"gopkg.in/yaml.v3"
)

// Fixture is a list of range requests submitted in order.
type Fixture struct {
	Requests []expansion.Request `yaml:"requests"`
}

// LoadFixture decodes a YAML fixture.
func LoadFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, ErrEmptyFixture
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if len(f.Requests) == 0 {
		return Fixture{}, ErrEmptyFixture
	}
	return f, nil
}

// LoadFixtureFile reads the fixture at path, or returns the sample when
// path is empty.
func LoadFixtureFile(path string) (Fixture, error) {
	if path == "" {
		return SampleFixture(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return LoadFixture(bytes.NewReader(data))
}

// SampleFixture is a small school calendar covering single-day, timed,
// multi-day and venue events.
func SampleFixture() Fixture {
	return Fixture{Requests: []expansion.Request{
		{
			Name:        "Projektwoche",
			StartDate:   "2024-06-10",
			EndDate:     "2024-06-14",
			MultiDay:    true,
			StartTime:   "08:00",
			EndTime:     "13:00",
			Location:    "Aula",
			MainContact: "Frau Berger",
			AddNote:     true,
			Note:        "Bühnentechnik am Montag prüfen",
		},
		{
			Name:        "Elternabend 5a",
			StartDate:   "2024-06-11",
			StartTime:   "19:00",
			Location:    "Raum 204",
			MainContact: "Herr Yilmaz",
			ContactInfo: "yilmaz@schule.example",
		},
		{
			Name:      "Sportfest",
			StartDate: "2024-06-20",
			EndDate:   "2024-06-21",
			MultiDay:  true,
			Location:  "Sportplatz",
		},
		{
			Name:      "Zeugniskonferenz",
			StartDate: "2024-06-24",
			StartTime: "14:00",
			EndTime:   "17:30",
			Location:  "Aula",
		},
	}}
}
