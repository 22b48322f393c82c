// Package ranking computes the per-tick top-N view over dense series.
package ranking

import (
	"math"
	"sort"

	"github.com/okian/starline/internal/domain/model"
)

// DefaultTopN matches the reference behavior of highlighting five entries.
const DefaultTopN = 5

// Snapshot derives the ranking state at tickIndex from the full set of
// dense series. prevTopN is the immediately preceding snapshot's top-N;
// Entering and Leaving are computed against it, so they describe
// single-tick transitions for animation, not a historical baseline.
//
// The computation is deterministic and side-effect free: identical inputs
// produce identical snapshots. Ties on value break by input order of the
// series, which follows the original entity ordering.
func Snapshot(dense []model.DenseSeries, tickIndex int, prevTopN []string, n int) model.RankingSnapshot {
	if n <= 0 {
		n = DefaultTopN
	}

	snap := model.RankingSnapshot{
		TopN:     []string{},
		Entering: []string{},
		Leaving:  []string{},
	}

	if tickIndex >= 0 {
		type ranked struct {
			id    string
			value float64
		}
		visible := make([]ranked, 0, len(dense))
		total := 0.0
		for _, s := range dense {
			v, ok := s.ValueAt(tickIndex)
			if !ok {
				continue
			}
			visible = append(visible, ranked{id: s.ProjectID, value: v})
			total += v
		}

		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].value > visible[j].value
		})

		snap.Total = int64(math.Round(total))
		for i := 0; i < len(visible) && i < n; i++ {
			snap.TopN = append(snap.TopN, visible[i].id)
		}
	}

	current := make(map[string]bool, len(snap.TopN))
	for _, id := range snap.TopN {
		current[id] = true
	}
	previous := make(map[string]bool, len(prevTopN))
	for _, id := range prevTopN {
		previous[id] = true
	}

	for _, id := range snap.TopN {
		if !previous[id] {
			snap.Entering = append(snap.Entering, id)
		}
	}
	for _, id := range prevTopN {
		if !current[id] {
			snap.Leaving = append(snap.Leaving, id)
		}
	}

	return snap
}

// VisibleCount returns how many series are visible at tickIndex.
func VisibleCount(dense []model.DenseSeries, tickIndex int) int {
	count := 0
	for _, s := range dense {
		if _, ok := s.ValueAt(tickIndex); ok {
			count++
		}
	}
	return count
}
