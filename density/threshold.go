package density

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// QuantilePositive returns the q-quantile of the grid's positive cell
// values, or 0 if q <= 0 or no cell is positive. Quantiles are taken over
// occupied cells only so that the mostly-zero tail of a density surface does
// not drag the cutoff to zero.
func QuantilePositive(g *Grid, q float64) float64 {
	if q <= 0 {
		return 0
	}

	pos := make([]float64, 0, len(g.Values))
	for _, v := range g.Values {
		if v > 0 {
			pos = append(pos, v)
		}
	}
	if len(pos) == 0 {
		return 0
	}
	sort.Float64s(pos)

	if q >= 1 {
		return pos[len(pos)-1]
	}
	return stat.Quantile(q, stat.Empirical, pos, nil)
}

// ThresholdQuantile zeroes every cell whose density falls below the
// q-quantile of the grid's positive values, suppressing low-density tail
// noise before overlap computation. q <= 0 leaves the grid unchanged. The
// grid is not renormalized; callers decide when total mass matters.
func ThresholdQuantile(g *Grid, q float64) {
	cut := QuantilePositive(g, q)
	if cut <= 0 {
		return
	}
	for i, v := range g.Values {
		if v < cut {
			g.Values[i] = 0
		}
	}
}
