package points

import (
	"errors"
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestNewSetDropsIncompleteRows(t *testing.T) {
	nan := math.NaN()
	x := []*float64{fp(1), nil, fp(3), fp(4), &nan}
	y := []*float64{fp(10), fp(20), nil, fp(40), fp(50)}

	s, err := NewSet("spA", "env1", "env2", x, y)
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}

	if s.Len() != 2 {
		t.Errorf("expected 2 complete rows, got %d", s.Len())
	}
	if s.X[0] != 1 || s.Y[0] != 10 || s.X[1] != 4 || s.Y[1] != 40 {
		t.Errorf("unexpected surviving rows: %v, %v", s.X, s.Y)
	}
}

func TestNewSetValidation(t *testing.T) {
	tests := []struct {
		name  string
		label string
		dimX  string
		dimY  string
		x     []float64
		y     []float64
	}{
		{"empty label", "", "env1", "env2", []float64{1, 2}, []float64{1, 2}},
		{"empty dimension", "spA", "", "env2", []float64{1, 2}, []float64{1, 2}},
		{"duplicate dimensions", "spA", "env1", "env1", []float64{1, 2}, []float64{1, 2}},
		{"length mismatch", "spA", "env1", "env2", []float64{1, 2, 3}, []float64{1, 2}},
		{"too few rows", "spA", "env1", "env2", []float64{1}, []float64{1}},
		{"no rows", "spA", "env1", "env2", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSetFromValues(tt.label, tt.dimX, tt.dimY, tt.x, tt.y)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

func TestNewSetAllRowsMissing(t *testing.T) {
	x := []*float64{nil, nil}
	y := []*float64{fp(1), fp(2)}

	_, err := NewSet("spA", "env1", "env2", x, y)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidInputError for all-missing sample, got %v", err)
	}
}

func TestNewSetCopiesInput(t *testing.T) {
	x := []float64{1, 2}
	y := []float64{3, 4}
	s, err := NewSetFromValues("spA", "env1", "env2", x, y)
	if err != nil {
		t.Fatalf("NewSetFromValues failed: %v", err)
	}

	x[0] = 99
	if s.X[0] != 1 {
		t.Error("set should not alias caller slices")
	}
}

func TestNewSpecies(t *testing.T) {
	occ, _ := NewSetFromValues("spA", "env1", "env2", []float64{1, 2}, []float64{1, 2})
	bg, _ := NewSetFromValues("spA", "env1", "env2", []float64{0, 5}, []float64{0, 5})

	sp, err := NewSpecies("spA", occ, bg)
	if err != nil {
		t.Fatalf("NewSpecies failed: %v", err)
	}
	if sp.Name != "spA" {
		t.Errorf("expected name spA, got %s", sp.Name)
	}
}

func TestNewSpeciesValidation(t *testing.T) {
	occ, _ := NewSetFromValues("spA", "env1", "env2", []float64{1, 2}, []float64{1, 2})
	bg, _ := NewSetFromValues("spA", "env1", "env2", []float64{0, 5}, []float64{0, 5})
	bgOther, _ := NewSetFromValues("spA", "env1", "env3", []float64{0, 5}, []float64{0, 5})

	tests := []struct {
		name    string
		spName  string
		occ, bg *Set
	}{
		{"empty name", "", occ, bg},
		{"nil occurrences", "spA", nil, bg},
		{"nil background", "spA", occ, nil},
		{"dimension mismatch", "spA", occ, bgOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpecies(tt.spName, tt.occ, tt.bg)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("expected InvalidInputError, got %v", err)
			}
		})
	}
}
