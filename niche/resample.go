package niche

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/nicheperm/density"
	"github.com/pthm-cable/nicheperm/points"
)

// availabilitySampler draws pseudo-occurrence locations from an availability
// surface: a grid cell is chosen with probability proportional to its
// density, and the point is placed uniformly within that cell. The
// cumulative weight table is built once and shared read-only across
// replicates.
type availabilitySampler struct {
	grid  *density.Grid
	cum   []float64
	total float64
}

func newAvailabilitySampler(avail *density.Grid) *availabilitySampler {
	cum := make([]float64, len(avail.Values))
	var total float64
	for i, v := range avail.Values {
		if v > 0 {
			total += v
		}
		cum[i] = total
	}
	return &availabilitySampler{grid: avail, cum: cum, total: total}
}

// relocate draws n points from the availability surface, preserving the
// original occurrence sample size. The template set supplies the label and
// dimension names of the pseudo-sample.
func (s *availabilitySampler) relocate(rng *rand.Rand, n int, template *points.Set) *points.Set {
	xs := make([]float64, n)
	ys := make([]float64, n)
	halfW := s.grid.CellWidth() / 2
	halfH := s.grid.CellHeight() / 2

	for i := 0; i < n; i++ {
		// Draw u in (0, total] so a leading run of zero-density cells can
		// never be selected.
		u := s.total * (1 - rng.Float64())
		idx := sort.SearchFloat64s(s.cum, u)
		if idx >= len(s.cum) {
			idx = len(s.cum) - 1
		}
		cx, cy := s.grid.CellCenter(idx)
		xs[i] = cx + (rng.Float64()*2-1)*halfW
		ys[i] = cy + (rng.Float64()*2-1)*halfH
	}

	// The drawn coordinates are complete by construction, so the set
	// constructor cannot fail for n >= MinPoints.
	set, err := points.NewSetFromValues(template.Label, template.DimX, template.DimY, xs, ys)
	if err != nil {
		panic("niche: relocated sample invalid: " + err.Error())
	}
	return set
}
