// Package density builds smoothed density surfaces over 2-D environmental
// space. Surfaces live on a regular R×R grid covering the bounding extent of
// the background sample, so grids built from the same extent and resolution
// are directly comparable cell for cell.
package density

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/nicheperm/points"
)

// Bounds is the rectangular domain a grid covers in environmental space.
type Bounds struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// ExtentBounds computes the bounding box of a background sample, expanded by
// margin (a fraction of the per-dimension range) on each side. Degenerate
// dimensions are padded so cells always have positive width.
func ExtentBounds(extent *points.Set, margin float64) Bounds {
	b := Bounds{
		Xmin: floats.Min(extent.X),
		Xmax: floats.Max(extent.X),
		Ymin: floats.Min(extent.Y),
		Ymax: floats.Max(extent.Y),
	}

	padX := (b.Xmax - b.Xmin) * margin
	padY := (b.Ymax - b.Ymin) * margin
	if b.Xmax-b.Xmin+2*padX <= 0 {
		padX = 0.5
	}
	if b.Ymax-b.Ymin+2*padY <= 0 {
		padY = 0.5
	}

	b.Xmin -= padX
	b.Xmax += padX
	b.Ymin -= padY
	b.Ymax += padY
	return b
}

// Grid is a non-negative density surface on an R×R regular grid. Values are
// stored row-major: index = iy*R + ix, with ix advancing along the X
// dimension.
type Grid struct {
	R      int
	Bounds Bounds
	Values []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(r int, b Bounds) *Grid {
	return &Grid{R: r, Bounds: b, Values: make([]float64, r*r)}
}

// CellWidth returns the cell extent along X.
func (g *Grid) CellWidth() float64 { return (g.Bounds.Xmax - g.Bounds.Xmin) / float64(g.R) }

// CellHeight returns the cell extent along Y.
func (g *Grid) CellHeight() float64 { return (g.Bounds.Ymax - g.Bounds.Ymin) / float64(g.R) }

// CellIndex maps an environmental coordinate to its flat cell index,
// clamping coordinates on the boundary into the grid.
func (g *Grid) CellIndex(x, y float64) int {
	ix := int((x - g.Bounds.Xmin) / g.CellWidth())
	iy := int((y - g.Bounds.Ymin) / g.CellHeight())
	ix = clampIndex(ix, g.R)
	iy = clampIndex(iy, g.R)
	return iy*g.R + ix
}

// CellCenter returns the environmental coordinate at the center of the cell
// with the given flat index.
func (g *Grid) CellCenter(idx int) (x, y float64) {
	ix := idx % g.R
	iy := idx / g.R
	x = g.Bounds.Xmin + (float64(ix)+0.5)*g.CellWidth()
	y = g.Bounds.Ymin + (float64(iy)+0.5)*g.CellHeight()
	return x, y
}

// Sum returns the total mass of the surface.
func (g *Grid) Sum() float64 { return floats.Sum(g.Values) }

// Normalize rescales the surface to sum to 1. An all-zero surface is left
// unchanged.
func (g *Grid) Normalize() {
	sum := g.Sum()
	if sum > 0 {
		floats.Scale(1/sum, g.Values)
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{R: g.R, Bounds: g.Bounds, Values: make([]float64, len(g.Values))}
	copy(c.Values, g.Values)
	return c
}

// SameShape reports whether two grids share resolution and extent, the
// precondition for cell-for-cell comparison.
func (g *Grid) SameShape(o *Grid) bool {
	return g.R == o.R && g.Bounds == o.Bounds
}

func clampIndex(i, r int) int {
	if i < 0 {
		return 0
	}
	if i >= r {
		return r - 1
	}
	return i
}
