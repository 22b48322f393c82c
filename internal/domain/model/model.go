// Package model contains domain models passed between layers.
package model

import "time"

// Observation is a single raw data point for one project: the star count
// recorded on a calendar day. Values are non-negative; duplicates per date
// are allowed and resolved later by the last-wins rule.
type Observation struct {
	Date  time.Time // normalized to UTC midnight at ingestion
	Value float64
}

// Project is an entity whose growth is replayed. History is sorted
// ascending by date at load time (stable, ties keep input order) and is
// immutable afterwards.
type Project struct {
	ID      string
	IconURL string
	History []Observation
}

// Annotation is a calendar-dated event surfaced while the playhead passes
// its date. The catalog is sorted ascending by date at load time.
type Annotation struct {
	Date        time.Time
	Title       string
	Description string
	IconURL     string
}

// Point is one dense-series sample aligned to a timeline tick.
type Point struct {
	Tick  time.Time
	Value float64
}

// DenseSeries is a project's interpolated value sequence. Points[0]
// corresponds to timeline index Offset (the birth tick); a project that
// never reaches a positive value has an empty Points slice.
type DenseSeries struct {
	ProjectID string
	IconURL   string
	Offset    int
	Points    []Point
}

// Len returns the number of dense points.
func (s DenseSeries) Len() int { return len(s.Points) }

// ValueAt returns the series value at the given timeline tick index,
// clamped to the last available point. The second return is false when the
// project is not visible at that index.
func (s DenseSeries) ValueAt(tickIndex int) (float64, bool) {
	if tickIndex < 0 || tickIndex < s.Offset || len(s.Points) == 0 {
		return 0, false
	}
	i := tickIndex - s.Offset
	if i >= len(s.Points) {
		i = len(s.Points) - 1
	}
	return s.Points[i].Value, true
}

// Day truncates a time to its UTC calendar day. All dates in the core use
// this single representation; nothing downstream re-examines formats.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart truncates a time to the first day of its UTC calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
