package series

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/starline/internal/domain/model"
	"github.com/okian/starline/pkg/metrics"
)

// BuildAll interpolates every project against the timeline using a bounded
// pool of workers. Results keep the input project order, which downstream
// ranking relies on for tie-breaking. This runs once at load time, before
// playback starts.
func BuildAll(ctx context.Context, projects []model.Project, ticks []time.Time, workers int) []model.DenseSeries {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(projects) {
		workers = len(projects)
	}

	start := time.Now()
	defer func() {
		metrics.RecordSeriesBuildDuration(float64(time.Since(start).Milliseconds()))
	}()

	out := make([]model.DenseSeries, len(projects))
	if len(projects) == 0 {
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = Interpolate(projects[i], ticks)
			}
		}()
	}

	for i := range projects {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return out
		}
	}
	close(jobs)
	wg.Wait()
	return out
}
