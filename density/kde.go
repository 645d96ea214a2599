package density

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/nicheperm/points"
)

// DefaultMargin is the fraction of the extent range added on each side of
// the grid so boundary points keep their kernel mass on-grid.
const DefaultMargin = 0.05

// kernelReach is the truncation radius of the Gaussian kernel in bandwidth
// units. Beyond 3 bandwidths the kernel weight is below 1.2% of the peak.
const kernelReach = 3.0

// Estimate computes a bivariate Gaussian kernel density surface for a point
// sample on an R×R grid over the given bounds. The sample is binned into
// grid cells and smoothed with a separable truncated Gaussian kernel whose
// per-dimension bandwidth follows Silverman's rule-of-thumb, floored at half
// a cell so degenerate samples cannot produce NaN or spike-only surfaces.
// The result is normalized to sum to 1 and is deterministic for fixed
// inputs.
func Estimate(sample *points.Set, b Bounds, r int) *Grid {
	g := NewGrid(r, b)

	// Bin sample points into cell counts.
	for i := range sample.X {
		g.Values[g.CellIndex(sample.X[i], sample.Y[i])]++
	}

	hx := bandwidth(sample.X, g.CellWidth())
	hy := bandwidth(sample.Y, g.CellHeight())

	smooth(g.Values, r, true, gaussianKernel(hx, g.CellWidth()))
	smooth(g.Values, r, false, gaussianKernel(hy, g.CellHeight()))

	g.Normalize()
	return g
}

// bandwidth returns the Silverman rule-of-thumb bandwidth for one
// dimension: 1.06 * min(sd, IQR/1.349) * n^(-1/5). The spread term uses the
// more robust of sd and IQR when one of them collapses, and the result is
// floored at half a grid cell so a collinear or constant sample still yields
// a finite, smooth surface.
func bandwidth(values []float64, cellSize float64) float64 {
	n := len(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sd := stat.StdDev(values, nil)
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) -
		stat.Quantile(0.25, stat.Empirical, sorted, nil)

	spread := math.Min(sd, iqr/1.349)
	if spread <= 0 {
		spread = math.Max(sd, iqr/1.349)
	}

	h := 1.06 * spread * math.Pow(float64(n), -0.2)
	return math.Max(h, cellSize/2)
}

// gaussianKernel samples a 1-D Gaussian of bandwidth h at cell-center
// offsets, truncated at kernelReach bandwidths. The kernel is left
// unnormalized; the surface is renormalized after smoothing.
func gaussianKernel(h, cellSize float64) []float64 {
	radius := int(math.Ceil(kernelReach * h / cellSize))
	if radius < 1 {
		radius = 1
	}
	k := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		d := float64(i) * cellSize / h
		k[i+radius] = math.Exp(-0.5 * d * d)
	}
	return k
}

// smooth convolves the grid with a 1-D kernel along rows (alongX) or
// columns. The kernel is truncated at the grid boundary; mass balance is
// restored by the final normalization in Estimate.
func smooth(values []float64, r int, alongX bool, kernel []float64) {
	radius := len(kernel) / 2
	tmp := make([]float64, len(values))

	for iy := 0; iy < r; iy++ {
		for ix := 0; ix < r; ix++ {
			v := values[iy*r+ix]
			if v == 0 {
				continue
			}
			for k := -radius; k <= radius; k++ {
				var jx, jy int
				if alongX {
					jx, jy = ix+k, iy
				} else {
					jx, jy = ix, iy+k
				}
				if jx < 0 || jx >= r || jy < 0 || jy >= r {
					continue
				}
				tmp[jy*r+jx] += v * kernel[k+radius]
			}
		}
	}

	copy(values, tmp)
}
