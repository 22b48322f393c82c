// Package series converts sparse per-project observations into dense,
// timeline-aligned value sequences via linear interpolation.
package series

import (
	"sort"
	"time"

	"github.com/okian/starline/internal/domain/model"
)

// Interpolate produces one dense value per timeline tick for a project.
//
// Per tick T:
//   - an observation dated exactly T is used verbatim (duplicates on the
//     same date resolve last-wins in sorted order);
//   - otherwise the value is linearly interpolated between the latest
//     observation at or before T and the earliest at or after T, by
//     elapsed-time fraction;
//   - after the last observation the value holds flat;
//   - before the first observation the value is zero.
//
// The leading run of non-positive values is trimmed off and its length
// recorded as the series offset, which is the project's birth tick index.
// A project that never reaches a positive value yields an empty series.
func Interpolate(p model.Project, ticks []time.Time) model.DenseSeries {
	out := model.DenseSeries{ProjectID: p.ID, IconURL: p.IconURL}

	history := make([]model.Observation, len(p.History))
	copy(history, p.History)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	// Last-wins lookup for exact tick matches.
	exact := make(map[int64]float64, len(history))
	for _, o := range history {
		exact[o.Date.Unix()] = o.Value
	}

	dense := make([]model.Point, len(ticks))
	for i, tick := range ticks {
		dense[i] = model.Point{Tick: tick, Value: valueAt(history, exact, tick)}
	}

	birth := -1
	for i, pt := range dense {
		if pt.Value > 0 {
			birth = i
			break
		}
	}
	if birth < 0 {
		return out
	}
	out.Offset = birth
	out.Points = dense[birth:]
	return out
}

func valueAt(history []model.Observation, exact map[int64]float64, tick time.Time) float64 {
	if v, ok := exact[tick.Unix()]; ok {
		return v
	}

	// First observation strictly after tick; everything before it is <= tick.
	n := sort.Search(len(history), func(i int) bool {
		return history[i].Date.After(tick)
	})
	prevIdx := n - 1 // last observation <= tick (last-wins among duplicates)
	nextIdx := n     // first observation > tick

	switch {
	case prevIdx >= 0 && nextIdx < len(history):
		prev, next := history[prevIdx], history[nextIdx]
		if !next.Date.After(prev.Date) {
			// Unreachable: equal dates are caught by the exact-match
			// short-circuit above.
			panic("series: interpolation bounds share a date")
		}
		t := float64(tick.Sub(prev.Date)) / float64(next.Date.Sub(prev.Date))
		return prev.Value + t*(next.Value-prev.Value)
	case prevIdx >= 0:
		return history[prevIdx].Value
	default:
		return 0
	}
}
