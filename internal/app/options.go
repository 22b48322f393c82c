package app

import (
	"time"

	"github.com/okian/starline/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTopN sets how many entries the ranking highlights.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithTickInterval sets the real-time period of one timeline step. This is
// a presentation parameter, not a correctness invariant.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithEventDisplayDuration sets how long an annotation stays on screen
// before auto-dismissing when pause-on-events is off.
func WithEventDisplayDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.eventDisplay = d
		}
	}
}

// WithPauseOnEvents sets the initial pause-on-event mode.
func WithPauseOnEvents(enabled bool) Option {
	return func(e *Engine) {
		e.pauseOnEvents = enabled
	}
}

// WithBuildWorkers bounds the interpolation worker pool used at Start.
func WithBuildWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.buildWorkers = workers
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
