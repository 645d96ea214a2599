// Package niche estimates ecological niche overlap between two species in
// environmental space and tests its significance by randomization. A niche
// grid holds three aligned density surfaces per species: background
// availability, raw occurrence, and occurrence corrected for availability.
// The engine compares two corrected surfaces with Schoener's D and the
// Hellinger-based I statistic against a null distribution of relocated
// pseudo-niches.
package niche

import (
	"github.com/pthm-cable/nicheperm/density"
	"github.com/pthm-cable/nicheperm/points"
)

// BuildParams configures niche grid construction. Resolution is the grid
// side length R shared by every surface in one analysis run. ThSp and ThEnv
// are the quantile cutoffs applied to species-density and
// environment-density surfaces respectively.
type BuildParams struct {
	Resolution int
	Margin     float64
	ThSp       float64
	ThEnv      float64
}

// Grid is one species' niche in environmental space: three aligned density
// surfaces on the same R×R grid. Immutable once built.
type Grid struct {
	Species string

	// Availability is the background/available-habitat density.
	Availability *density.Grid
	// Occurrence is the uncorrected occurrence density, after the ThSp
	// cutoff.
	Occurrence *density.Grid
	// Corrected is occurrence density divided by availability density, an
	// estimate of habitat preference independent of habitat abundance.
	// Normalized to sum to 1.
	Corrected *density.Grid

	// AvailabilityCutoff is the ThEnv quantile of the availability surface.
	// Cells below it are treated as unsampled environment: division is
	// skipped there and the corrected density is zero.
	AvailabilityCutoff float64

	// NumOccurrences is the occurrence sample size, preserved by the
	// randomization engine when relocating the niche.
	NumOccurrences int
}

// BuildGrid constructs a species' niche grid over the shared environmental
// extent:
//
//  1. availability from the species' background sample,
//  2. raw occurrence from the species' occurrence sample on the same grid,
//  3. corrected = occurrence / availability, with availability cells below
//     the ThEnv quantile zeroed rather than divided, and
//  4. the ThSp quantile cutoff applied to the occurrence and corrected
//     surfaces.
//
// Fails with InvalidInputError before any estimation if inputs are missing
// or the resolution is unusable.
func BuildGrid(sp *points.Species, extent *points.Set, p BuildParams) (*Grid, error) {
	if err := checkBuildInputs(sp, extent, p); err != nil {
		return nil, err
	}

	bounds := density.ExtentBounds(extent, p.Margin)

	avail := density.Estimate(sp.Background, bounds, p.Resolution)
	occ := density.Estimate(sp.Occurrences, bounds, p.Resolution)
	cutoff := density.QuantilePositive(avail, p.ThEnv)

	corrected := correctedSurface(occ, avail, cutoff, p.ThSp)
	density.ThresholdQuantile(occ, p.ThSp)

	return &Grid{
		Species:            sp.Name,
		Availability:       avail,
		Occurrence:         occ,
		Corrected:          corrected,
		AvailabilityCutoff: cutoff,
		NumOccurrences:     sp.Occurrences.Len(),
	}, nil
}

// correctedSurface divides occurrence density by availability density,
// skipping cells where availability falls below the cutoff, then applies the
// species quantile cutoff and normalizes. The occurrence grid is not
// modified.
func correctedSurface(occ, avail *density.Grid, availCutoff, thSp float64) *density.Grid {
	corr := density.NewGrid(occ.R, occ.Bounds)
	for i, a := range avail.Values {
		if a <= 0 || a < availCutoff {
			continue
		}
		corr.Values[i] = occ.Values[i] / a
	}
	density.ThresholdQuantile(corr, thSp)
	corr.Normalize()
	return corr
}

func checkBuildInputs(sp *points.Species, extent *points.Set, p BuildParams) error {
	if sp == nil {
		return &points.InvalidInputError{Reason: "species is nil"}
	}
	if extent == nil {
		return &points.InvalidInputError{Reason: "environmental extent is nil"}
	}
	if !sp.Occurrences.SameDims(extent) {
		return &points.InvalidInputError{
			Reason: "species " + sp.Name + " dimensions do not match the environmental extent",
		}
	}
	if p.Resolution < 2 {
		return &points.InvalidInputError{Reason: "grid resolution must be at least 2"}
	}
	if p.ThSp < 0 || p.ThSp >= 1 || p.ThEnv < 0 || p.ThEnv >= 1 {
		return &points.InvalidInputError{Reason: "threshold quantiles must lie in [0, 1)"}
	}
	return nil
}
