// Package points defines the point-sample inputs to the niche analysis:
// coordinate sets in environmental space and the species records built from
// them. A Set lives in the coordinate system of two chosen environmental
// predictors, not in geographic space.
package points

import "math"

// MinPoints is the smallest sample size density estimation is defined for.
const MinPoints = 2

// Set is an ordered collection of 2-D environmental-space coordinates
// sharing one group label and one pair of predictor dimensions. Rows with
// missing values are dropped at construction; a Set is immutable afterwards.
type Set struct {
	Label string
	DimX  string
	DimY  string
	X     []float64
	Y     []float64
}

// NewSet builds a Set from raw extracted predictor values. Rows where either
// coordinate is nil or NaN are excluded. Fails with InvalidInputError if the
// label or dimension names are invalid or fewer than MinPoints complete rows
// remain.
func NewSet(label, dimX, dimY string, x, y []*float64) (*Set, error) {
	if len(x) != len(y) {
		return nil, invalidf("coordinate columns have different lengths: %d vs %d", len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if x[i] == nil || y[i] == nil {
			continue
		}
		if math.IsNaN(*x[i]) || math.IsNaN(*y[i]) {
			continue
		}
		xs = append(xs, *x[i])
		ys = append(ys, *y[i])
	}

	return NewSetFromValues(label, dimX, dimY, xs, ys)
}

// NewSetFromValues builds a Set from complete coordinate slices. The slices
// are copied; callers keep ownership of their inputs.
func NewSetFromValues(label, dimX, dimY string, x, y []float64) (*Set, error) {
	if label == "" {
		return nil, invalidf("point set label is empty")
	}
	if dimX == "" || dimY == "" {
		return nil, invalidf("point set %q: predictor dimension names must be non-empty", label)
	}
	if dimX == dimY {
		return nil, invalidf("point set %q: need two distinct predictor dimensions, got %q twice", label, dimX)
	}
	if len(x) != len(y) {
		return nil, invalidf("point set %q: coordinate columns have different lengths: %d vs %d", label, len(x), len(y))
	}
	if len(x) < MinPoints {
		return nil, invalidf("point set %q: %d complete rows, need at least %d", label, len(x), MinPoints)
	}

	s := &Set{
		Label: label,
		DimX:  dimX,
		DimY:  dimY,
		X:     make([]float64, len(x)),
		Y:     make([]float64, len(y)),
	}
	copy(s.X, x)
	copy(s.Y, y)
	return s, nil
}

// Len returns the number of complete rows in the set.
func (s *Set) Len() int { return len(s.X) }

// SameDims reports whether two sets share the same predictor dimension pair.
func (s *Set) SameDims(o *Set) bool {
	return s.DimX == o.DimX && s.DimY == o.DimY
}

// Species pairs a species name with its presence sample and its
// background/available-habitat sample in the same environmental space.
type Species struct {
	Name        string
	Occurrences *Set
	Background  *Set
}

// NewSpecies validates and assembles a species record. Both sets must be
// non-nil and share the same predictor dimension pair.
func NewSpecies(name string, occurrences, background *Set) (*Species, error) {
	if name == "" {
		return nil, invalidf("species name is empty")
	}
	if occurrences == nil {
		return nil, invalidf("species %q: occurrence sample is nil", name)
	}
	if background == nil {
		return nil, invalidf("species %q: background sample is nil", name)
	}
	if !occurrences.SameDims(background) {
		return nil, invalidf("species %q: occurrence dimensions (%s, %s) do not match background (%s, %s)",
			name, occurrences.DimX, occurrences.DimY, background.DimX, background.DimY)
	}
	return &Species{Name: name, Occurrences: occurrences, Background: background}, nil
}
