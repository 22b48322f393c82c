// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's sentinel errors.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TickIntervalMS sets the wall-clock spacing between playback ticks.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// TopN caps how many series the ranking surfaces per tick.
	TopN int `koanf:"top_n"`

	// EventDisplayMS sets how long an annotation stays on screen before
	// auto-dismissing. Ignored when PauseOnEvents is set.
	EventDisplayMS int `koanf:"event_display_ms"`

	// PauseOnEvents halts playback whenever an annotation fires and waits
	// for an explicit resume instead of auto-dismissing.
	PauseOnEvents bool `koanf:"pause_on_events"`

	// DatasetFile and EventsFile point at the JSON inputs. Empty paths
	// fall back to the built-in demo dataset.
	DatasetFile string `koanf:"dataset_file"`
	EventsFile  string `koanf:"events_file"`

	// BuildWorkers bounds the goroutine pool used to densify series at
	// load time.
	BuildWorkers int `koanf:"build_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		TickIntervalMS: 300,
		TopN:           5,
		EventDisplayMS: 5000,
		PauseOnEvents:  false,
		BuildWorkers:   runtime.NumCPU(),
	}
}
