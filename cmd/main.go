package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/starline/internal/adapters/http/api"
	"github.com/okian/starline/internal/adapters/loader"
	"github.com/okian/starline/internal/app"
	"github.com/okian/starline/internal/config"
	"github.com/okian/starline/internal/demo"
	"github.com/okian/starline/internal/domain/model"
	"github.com/okian/starline/pkg/logger"
	"github.com/okian/starline/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional .env/file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	projects, catalog, err := loadInputs(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to load inputs", logger.Error(err))
		return
	}

	engine := app.New(projects, catalog,
		app.WithLogger(log),
		app.WithTopN(cfg.TopN),
		app.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
		app.WithEventDisplayDuration(time.Duration(cfg.EventDisplayMS)*time.Millisecond),
		app.WithPauseOnEvents(cfg.PauseOnEvents),
		app.WithBuildWorkers(cfg.BuildWorkers),
	)
	if err := engine.Start(ctx); err != nil {
		log.Error(ctx, "failed to start engine", logger.Error(err))
		return
	}
	defer engine.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(engine).Router(),
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		// WriteTimeout stays unset: /stream holds the response open for
		// the lifetime of the client.
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// loadInputs reads the dataset and catalog from the configured files, or
// falls back to the built-in demo dataset when no files are configured.
func loadInputs(ctx context.Context, cfg *config.Config, log logger.Logger) ([]model.Project, []model.Annotation, error) {
	if cfg.DatasetFile == "" {
		log.Info(ctx, "no dataset configured; using demo dataset")
		projects, catalog := demo.Dataset()
		return projects, catalog, nil
	}

	projects, err := loader.LoadProjects(cfg.DatasetFile)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "loaded dataset",
		logger.String("path", cfg.DatasetFile), logger.Int("projects", len(projects)))

	var catalog []model.Annotation
	if cfg.EventsFile != "" {
		catalog, err = loader.LoadCatalog(cfg.EventsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "loaded event catalog",
			logger.String("path", cfg.EventsFile), logger.Int("annotations", len(catalog)))
	}
	return projects, catalog, nil
}

// startSystemMetricsUpdater periodically refreshes process-level gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
