// Package timeline derives the uniform monthly time axis the replay
// advances over.
package timeline

import (
	"time"

	"github.com/okian/starline/internal/domain/model"
)

// Option applies a configuration option to Build.
type Option func(*builder)

// WithNow overrides the clock used for the empty-dataset fallback.
func WithNow(now time.Time) Option {
	return func(b *builder) {
		if !now.IsZero() {
			b.now = now
		}
	}
}

type builder struct {
	now time.Time
}

// Build collects every observation date across all projects and emits one
// tick per calendar month, from the first-of-month of the earliest date up
// to one month past the latest date. The trailing pad keeps the final
// observed value reachable by playback instead of clipped at the last
// sample.
//
// With zero observations anywhere the result is a degenerate single tick
// at the current month, so downstream consumers never see an empty axis.
func Build(projects []model.Project, opts ...Option) []time.Time {
	b := &builder{now: time.Now()}
	for _, opt := range opts {
		opt(b)
	}

	var minDate, maxDate time.Time
	found := false
	for _, p := range projects {
		for _, o := range p.History {
			if !found {
				minDate, maxDate = o.Date, o.Date
				found = true
				continue
			}
			if o.Date.Before(minDate) {
				minDate = o.Date
			}
			if o.Date.After(maxDate) {
				maxDate = o.Date
			}
		}
	}

	if !found {
		return []time.Time{model.MonthStart(b.now)}
	}

	start := model.MonthStart(minDate)
	end := maxDate.AddDate(0, 1, 0)

	var ticks []time.Time
	for t := start; !t.After(end); t = t.AddDate(0, 1, 0) {
		ticks = append(ticks, t)
	}
	return ticks
}

// Index returns the position of the last tick at or before date, or -1 if
// date precedes the first tick.
func Index(ticks []time.Time, date time.Time) int {
	idx := -1
	for i, t := range ticks {
		if t.After(date) {
			break
		}
		idx = i
	}
	return idx
}
