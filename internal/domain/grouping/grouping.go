// Package grouping partitions flat event records into sequences: maximal runs
// that share name and location and fall on consecutive calendar days.
package grouping

import (
	"fmt"
	"sort"

	"github.com/okian/eventboard/internal/domain/civil"
	"github.com/okian/eventboard/internal/domain/model"
)

// Sequence is a non-empty run of records with equal name and location,
// ascending by date, each adjacent pair exactly one day apart.
// Sequences are derived on every render pass and never stored.
type Sequence struct {
	Key     string
	Records []model.EventRecord
}

// Name is the shared record name.
func (s Sequence) Name() string { return s.Records[0].Name }

// Location is the shared record location.
func (s Sequence) Location() string { return s.Records[0].Location }

// First is the earliest record.
func (s Sequence) First() model.EventRecord { return s.Records[0] }

// Last is the latest record.
func (s Sequence) Last() model.EventRecord { return s.Records[len(s.Records)-1] }

// MultiDay reports whether the sequence covers more than one record.
func (s Sequence) MultiDay() bool { return len(s.Records) > 1 }

type bucketKey struct {
	name     string
	location string
}

// Group partitions records into sequences. Every record lands in exactly one
// sequence. The result does not depend on input order: records are sorted by
// date (ties by id) and sequences by first date, name, location.
//
// Two records on the same date are 0 days apart, which is not 1, so an exact
// duplicate opens its own sequence.
func Group(records []model.EventRecord) []Sequence {
	buckets := make(map[bucketKey][]model.EventRecord)
	for _, r := range records {
		k := bucketKey{name: r.Name, location: r.Location}
		buckets[k] = append(buckets[k], r)
	}

	out := make([]Sequence, 0, len(buckets))
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Date != bucket[j].Date {
				return bucket[i].Date < bucket[j].Date
			}
			return bucket[i].ID < bucket[j].ID
		})

		current := []model.EventRecord{bucket[0]}
		for _, r := range bucket[1:] {
			if consecutive(current[len(current)-1].Date, r.Date) {
				current = append(current, r)
				continue
			}
			out = append(out, Sequence{Records: current})
			current = []model.EventRecord{r}
		}
		out = append(out, Sequence{Records: current})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].First(), out[j].First()
		switch {
		case a.Date != b.Date:
			return a.Date < b.Date
		case a.Name != b.Name:
			return a.Name < b.Name
		case a.Location != b.Location:
			return a.Location < b.Location
		default:
			return a.ID < b.ID
		}
	})

	// Keys are assigned after ordering so they stay stable across passes
	// over the same collection.
	seq := make(map[bucketKey]int)
	for i := range out {
		k := bucketKey{name: out[i].Name(), location: out[i].Location()}
		out[i].Key = fmt.Sprintf("%s-%s-seq-%d", k.name, k.location, seq[k])
		seq[k]++
	}
	return out
}

// consecutive reports whether next falls exactly one calendar day after prev.
// Unparseable dates never join a run.
func consecutive(prev, next string) bool {
	n, err := civil.DaysBetween(prev, next)
	if err != nil {
		return false
	}
	return n == 1
}
