// Package events matches calendar-dated annotations against the playhead.
package events

import (
	"sort"
	"time"

	"github.com/okian/starline/internal/domain/model"
)

// Matcher tracks which annotations have fired during the current playback
// run. An annotation fires the first time the playhead reaches or passes
// its date and at most once per run; Reset clears the fired set so a new
// run can re-fire everything.
//
// Matcher is not safe for concurrent use; the playback engine serializes
// access under its own lock.
type Matcher struct {
	catalog []model.Annotation
	fired   map[int]bool
}

// NewMatcher copies and sorts the catalog ascending by date, ties keeping
// input order, which fixes the deterministic firing order.
func NewMatcher(catalog []model.Annotation) *Matcher {
	sorted := make([]model.Annotation, len(catalog))
	copy(sorted, catalog)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &Matcher{
		catalog: sorted,
		fired:   make(map[int]bool),
	}
}

// Match returns every not-yet-fired annotation whose date is at or before
// current, in catalog order, and marks them fired. Multiple annotations
// firing on the same tick are all returned; none are dropped.
func (m *Matcher) Match(current time.Time) []model.Annotation {
	var out []model.Annotation
	for i, a := range m.catalog {
		if m.fired[i] {
			continue
		}
		if a.Date.After(current) {
			// Catalog is sorted; nothing later can match either.
			break
		}
		m.fired[i] = true
		out = append(out, a)
	}
	return out
}

// Reset clears the fired set so annotations can re-fire on the next run.
func (m *Matcher) Reset() {
	m.fired = make(map[int]bool)
}

// FiredCount returns how many annotations have fired this run.
func (m *Matcher) FiredCount() int {
	return len(m.fired)
}

// Len returns the catalog size.
func (m *Matcher) Len() int {
	return len(m.catalog)
}

// Markers exposes the whole catalog as static renderer markers.
func (m *Matcher) Markers() []model.Marker {
	if len(m.catalog) == 0 {
		return nil
	}
	out := make([]model.Marker, len(m.catalog))
	for i, a := range m.catalog {
		out[i] = model.Marker{Date: a.Date.Format(model.ISODate), Title: a.Title}
	}
	return out
}
