package app

import (
	"github.com/okian/starline/internal/domain/model"
	"github.com/okian/starline/internal/domain/ranking"
	"github.com/okian/starline/pkg/metrics"
)

// Frame assembles the renderer-facing read model for the current playhead:
// visible series prefixes, the ranking snapshot, the active annotation and
// the static markers. Values are plain and serializable; calling it twice
// without an intervening tick yields identical frames.
func (e *Engine) Frame() model.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

func (e *Engine) frameLocked() model.Frame {
	f := model.Frame{
		TickIndex:     e.tickIndex,
		Playing:       e.playing,
		PauseOnEvents: e.pauseOnEvents,
		Series:        []model.SeriesView{},
		Ranking:       e.snapshot,
		Markers:       e.markers,
	}
	if e.tickIndex >= 0 && e.tickIndex < len(e.ticks) {
		f.Date = e.ticks[e.tickIndex].Format(model.ISODate)
	}
	if e.active != nil {
		view := e.active.View()
		f.ActiveEvent = &view
	}

	for _, s := range e.dense {
		if _, ok := s.ValueAt(e.tickIndex); !ok {
			continue
		}
		upto := e.tickIndex - s.Offset + 1
		if upto > len(s.Points) {
			upto = len(s.Points)
		}
		view := model.SeriesView{
			ID:      s.ProjectID,
			IconURL: s.IconURL,
			Points:  make([]model.PointView, upto),
		}
		for i := 0; i < upto; i++ {
			view.Points[i] = model.PointView{
				Date:  s.Points[i].Tick.Format(model.ISODate),
				Value: s.Points[i].Value,
			}
		}
		f.Series = append(f.Series, view)
	}
	return f
}

// Subscribe registers a frame listener. The returned cancel function must
// be called when the listener goes away. Slow listeners miss frames rather
// than stall the tick path.
func (e *Engine) Subscribe() (<-chan model.Frame, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan model.Frame, subscriberBuffer)
	e.subscribers[id] = ch

	// Seed the subscriber with the current state.
	select {
	case ch <- e.frameLocked():
	default:
	}

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if ch, ok := e.subscribers[id]; ok {
			close(ch)
			delete(e.subscribers, id)
		}
	}
	return ch, cancel
}

// broadcastLocked pushes the current frame to every subscriber without
// blocking. Caller holds the lock.
func (e *Engine) broadcastLocked() {
	if len(e.subscribers) == 0 {
		return
	}
	f := e.frameLocked()
	for _, ch := range e.subscribers {
		select {
		case ch <- f:
		default:
		}
	}
}

// Stats returns engine statistics for monitoring.
func (e *Engine) Stats() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := map[string]any{
		"started":        e.started,
		"projects":       len(e.projects),
		"timeline_ticks": len(e.ticks),
		"tick_index":     e.tickIndex,
		"playing":        e.playing,
		"annotations":    e.matcher.Len(),
		"fired":          e.matcher.FiredCount(),
		"top_n":          e.topN,
	}
	if e.started {
		stats["visible"] = ranking.VisibleCount(e.dense, e.tickIndex)
		metrics.UpdateVisibleEntities(ranking.VisibleCount(e.dense, e.tickIndex))
	}
	return stats
}
