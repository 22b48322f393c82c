// Package demo fabricates plausible star-history datasets for demos and
// tests, replacing the hardcoded sample arrays of the original frontend.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/starline/internal/domain/model"
)

// Default generation parameters.
const (
	defaultProjectCount = 8
	defaultSeed         = 42
	minObservations     = 4
	maxObservations     = 24
	maxStepDays         = 120
	maxStepStars        = 900
)

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithProjectCount sets how many projects to fabricate.
func WithProjectCount(n int) Option {
	return func(g *generator) {
		if n > 0 {
			g.projectCount = n
		}
	}
}

// WithSeed fixes the random source for reproducible datasets.
func WithSeed(seed int64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

type generator struct {
	projectCount int
	seed         int64
}

// Dataset fabricates a project set and a matching annotation catalog. The
// same seed always yields the same dataset; ids are fresh UUIDs so repeat
// runs never collide in downstream systems.
func Dataset(opts ...Option) ([]model.Project, []model.Annotation) {
	g := &generator{
		projectCount: defaultProjectCount,
		seed:         defaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}

	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // deterministic fixtures

	projects := make([]model.Project, g.projectCount)
	var firstDate, lastDate time.Time
	for i := range projects {
		projects[i] = g.project(rng, i)
		history := projects[i].History
		if firstDate.IsZero() || history[0].Date.Before(firstDate) {
			firstDate = history[0].Date
		}
		if last := history[len(history)-1].Date; last.After(lastDate) {
			lastDate = last
		}
	}

	catalog := []model.Annotation{
		{
			Date:        model.Day(firstDate.AddDate(0, 6, 0)),
			Title:       "Major Update Released",
			Description: "Version 2.0 shipped with significant improvements.",
		},
		{
			Date:        model.Day(lastDate.AddDate(0, -3, 0)),
			Title:       "Conference Talk",
			Description: "The project was featured in a keynote.",
		},
	}
	return projects, catalog
}

func (g *generator) project(rng *rand.Rand, index int) model.Project {
	// Spread launch dates over roughly a decade.
	start := time.Date(2014+rng.Intn(8), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
	points := minObservations + rng.Intn(maxObservations-minObservations+1)

	p := model.Project{
		ID:      fmt.Sprintf("demo/project-%02d-%s", index, uuid.New().String()[:8]),
		IconURL: fmt.Sprintf("https://avatars.example.com/u/%d", rng.Intn(1_000_000)),
	}

	date := start
	stars := 0.0
	for i := 0; i < points; i++ {
		p.History = append(p.History, model.Observation{Date: model.Day(date), Value: stars})
		date = date.AddDate(0, 0, 1+rng.Intn(maxStepDays))
		stars += float64(rng.Intn(maxStepStars))
	}
	return p
}
