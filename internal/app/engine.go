// Package app provides the playback engine that replays the dataset over
// the uniform timeline and assembles renderer-facing frames.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/okian/starline/internal/domain/events"
	"github.com/okian/starline/internal/domain/model"
	"github.com/okian/starline/internal/domain/ranking"
	"github.com/okian/starline/internal/domain/series"
	"github.com/okian/starline/internal/domain/timeline"
	"github.com/okian/starline/pkg/logger"
	"github.com/okian/starline/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultTickInterval = 300 * time.Millisecond
	defaultEventDisplay = 5 * time.Second
	subscriberBuffer    = 8
)

// Engine owns the playback state machine: a discrete playhead over the
// derived timeline, the per-tick ranking snapshot, and the annotation
// display lifecycle. All mutation happens under one mutex; timers carry a
// generation token so a late callback from a superseded timer is a no-op
// by construction.
type Engine struct {
	mu sync.Mutex

	// Immutable after Start.
	projects []model.Project
	ticks    []time.Time
	dense    []model.DenseSeries
	matcher  *events.Matcher
	markers  []model.Marker

	// Playhead state.
	tickIndex int
	playing   bool
	snapshot  model.RankingSnapshot

	// Annotation display state.
	active  *model.Annotation
	pending []model.Annotation

	// Timer validity tokens. A bump invalidates every callback scheduled
	// under the previous value.
	tickerGen  uint64
	dismissGen uint64

	// Configuration.
	topN          int
	tickInterval  time.Duration
	eventDisplay  time.Duration
	pauseOnEvents bool
	buildWorkers  int

	// Frame fan-out for SSE subscribers.
	subscribers map[uint64]chan model.Frame
	nextSubID   uint64

	started bool
	logger  logger.Logger
}

// New constructs an engine over an immutable dataset and annotation
// catalog. Start must be called before playback.
func New(projects []model.Project, catalog []model.Annotation, opts ...Option) *Engine {
	e := &Engine{
		projects:     projects,
		matcher:      events.NewMatcher(catalog),
		tickIndex:    -1,
		snapshot:     emptySnapshot(),
		topN:         ranking.DefaultTopN,
		tickInterval: defaultTickInterval,
		eventDisplay: defaultEventDisplay,
		subscribers:  make(map[uint64]chan model.Frame),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.markers = e.matcher.Markers()
	return e
}

func emptySnapshot() model.RankingSnapshot {
	return model.RankingSnapshot{TopN: []string{}, Entering: []string{}, Leaving: []string{}}
}

// Start derives the timeline and interpolates every project into a dense
// series. Data is loaded fully before playback; nothing here runs on the
// tick hot path.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}

	e.ticks = timeline.Build(e.projects)
	e.dense = series.BuildAll(ctx, e.projects, e.ticks, e.buildWorkers)
	e.started = true

	metrics.UpdateDatasetSize(len(e.projects), len(e.ticks))
	e.logger.Info(ctx, "engine started",
		logger.Int("projects", len(e.projects)),
		logger.Int("ticks", len(e.ticks)),
		logger.Int("annotations", e.matcher.Len()),
		logger.Duration("tickInterval", e.tickInterval),
	)
	return nil
}

// Stop halts playback and closes all frame subscriptions.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.playing = false
	e.tickerGen++
	e.dismissGen++
	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}
	e.started = false
}

// Play begins or resumes playback. Starting from the pre-start sentinel or
// from the final tick first resets the run (fired annotations included),
// then advances from the beginning. Resuming dismisses any active
// annotation immediately; with pause-on-events enabled and more
// annotations pending from the same tick, the next one activates and
// pauses again, so each press steps one annotation.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.playing || len(e.ticks) == 0 {
		return
	}

	if e.tickIndex < 0 || e.tickIndex >= len(e.ticks)-1 {
		e.resetLocked()
	}

	if e.active != nil {
		e.clearActiveLocked()
		if len(e.pending) > 0 && e.pauseOnEvents {
			e.activateNextLocked()
			e.broadcastLocked()
			return
		}
		if len(e.pending) > 0 {
			e.activateNextLocked()
		}
	}

	e.playing = true
	e.tickerGen++
	gen := e.tickerGen
	metrics.RecordPlaybackStarted()
	go e.run(gen)
	e.broadcastLocked()
}

// Pause stops advancement. The playhead and all derived state stay put.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing = false
	e.tickerGen++
}

// Reset returns the playhead to the pre-start sentinel and clears every
// piece of derived state: snapshot, active annotation, pending queue and
// the fired set. Calling it twice is equivalent to calling it once.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing = false
	e.tickerGen++
	e.resetLocked()
	metrics.RecordPlaybackReset()
	e.broadcastLocked()
}

// SetPauseOnEvents toggles the pause-on-event display mode.
func (e *Engine) SetPauseOnEvents(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseOnEvents = enabled
}

// PauseOnEvents reports the current display mode.
func (e *Engine) PauseOnEvents() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseOnEvents
}

// resetLocked clears the run state. Caller holds the lock.
func (e *Engine) resetLocked() {
	e.tickIndex = -1
	e.snapshot = emptySnapshot()
	e.pending = nil
	e.clearActiveLocked()
	e.matcher.Reset()
}

// clearActiveLocked drops the active annotation and invalidates its
// dismiss timer. Caller holds the lock.
func (e *Engine) clearActiveLocked() {
	if e.active != nil {
		metrics.RecordAnnotationDismissed()
	}
	e.active = nil
	e.dismissGen++
}

// run drives the playhead with a fixed-period ticker until its generation
// is superseded or playback stops.
func (e *Engine) run(gen uint64) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !e.advance(gen) {
			return
		}
	}
}

// advance commits one tick and recomputes all derived state from the same
// committed index. It reports whether the ticker should keep running.
func (e *Engine) advance(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.tickerGen || !e.playing {
		return false
	}
	if e.tickIndex >= len(e.ticks)-1 {
		e.playing = false
		e.tickerGen++
		return false
	}

	e.tickIndex++
	e.snapshot = ranking.Snapshot(e.dense, e.tickIndex, e.snapshot.TopN, e.topN)
	metrics.RecordTickAdvanced(e.tickIndex)
	metrics.UpdateVisibleEntities(ranking.VisibleCount(e.dense, e.tickIndex))
	metrics.UpdateTotalVisible(float64(e.snapshot.Total))

	fired := e.matcher.Match(e.ticks[e.tickIndex])
	if len(fired) > 0 {
		for range fired {
			metrics.RecordAnnotationFired()
		}
		e.pending = append(e.pending, fired...)
	}
	if e.active == nil && len(e.pending) > 0 {
		e.activateNextLocked()
		if e.pauseOnEvents {
			e.playing = false
			e.tickerGen++
		}
	}

	if e.tickIndex >= len(e.ticks)-1 {
		e.playing = false
		e.tickerGen++
		metrics.RecordPlaybackCompleted()
	}

	e.broadcastLocked()
	return e.playing && gen == e.tickerGen
}

// activateNextLocked promotes the head of the pending queue to the active
// annotation. Without pause-on-events an auto-dismiss timer is scheduled,
// carrying the current generation so a reset or replacement turns its
// firing into a no-op. Caller holds the lock.
func (e *Engine) activateNextLocked() {
	next := e.pending[0]
	e.pending = e.pending[1:]
	e.active = &next
	e.dismissGen++

	if e.pauseOnEvents {
		// Stays active until playback resumes; no timer.
		return
	}
	gen := e.dismissGen
	time.AfterFunc(e.eventDisplay, func() {
		e.dismiss(gen)
	})
}

// dismiss clears the active annotation if the timer that scheduled it is
// still current; a stale generation means the annotation was replaced or
// the engine reset in the meantime.
func (e *Engine) dismiss(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.dismissGen || e.active == nil {
		metrics.RecordStaleTimerFire()
		return
	}

	e.clearActiveLocked()
	if len(e.pending) > 0 {
		e.activateNextLocked()
		if e.pauseOnEvents {
			e.playing = false
			e.tickerGen++
		}
	}
	e.broadcastLocked()
}
