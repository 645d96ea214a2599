package niche

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/nicheperm/density"
)

// Overlap holds the two scalar similarity indices between two corrected
// occurrence surfaces. Both lie in [0, 1]: 1 for identical surfaces, 0 for
// disjoint support. Both are symmetric in their inputs.
type Overlap struct {
	// D is Schoener's D: 1 - 0.5 * Σ|p_i - q_i|.
	D float64
	// I is the Hellinger-based similarity: 1 - 0.5 * Σ(√p_i - √q_i)².
	I float64
}

// ComputeOverlap computes D and I between two corrected occurrence surfaces
// on the same grid. Each surface is renormalized to sum to 1 before
// comparison; the inputs are not modified. Fails with GridMismatchError if
// the surfaces differ in resolution or extent.
func ComputeOverlap(a, b *density.Grid) (Overlap, error) {
	if !a.SameShape(b) {
		return Overlap{}, &GridMismatchError{
			Reason: "surfaces differ in resolution or extent",
		}
	}

	p := a.Clone()
	q := b.Clone()
	p.Normalize()
	q.Normalize()

	d := 1 - 0.5*floats.Distance(p.Values, q.Values, 1)

	var hell float64
	for i := range p.Values {
		diff := math.Sqrt(p.Values[i]) - math.Sqrt(q.Values[i])
		hell += diff * diff
	}

	return Overlap{D: clampUnit(d), I: clampUnit(1 - 0.5*hell)}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
