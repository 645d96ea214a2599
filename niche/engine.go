package niche

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/pthm-cable/nicheperm/density"
	"github.com/pthm-cable/nicheperm/points"
)

// TestType selects which niches are randomized per replicate.
type TestType string

const (
	// Asymmetric relocates only the first species' niche and tests it
	// against the second species' fixed niche, with a one-sided p-value.
	Asymmetric TestType = "asymmetric"
	// Symmetric relocates both niches independently and uses a two-sided
	// p-value.
	Symmetric TestType = "symmetric"
)

// Alternative orients the one-sided test used in asymmetric mode.
type Alternative string

const (
	// Greater tests for niche conservatism: low p rejects the null when the
	// observed overlap is higher than random.
	Greater Alternative = "greater"
	// Lower tests for niche divergence: low p rejects the null when the
	// observed overlap is lower than random.
	Lower Alternative = "lower"
)

// DefaultReplicates is the replicate count used when Options leaves it zero.
const DefaultReplicates = 99

// serialThreshold is the replicate count below which the engine runs
// single-threaded; goroutine overhead dominates for tiny runs.
const serialThreshold = 8

// Options configures a randomization test run.
type Options struct {
	// Replicates is the null-distribution sample size N. 0 means
	// DefaultReplicates.
	Replicates int

	// TestType defaults to Asymmetric.
	TestType TestType

	// Alternative defaults to Greater. Ignored in symmetric mode, which is
	// always two-sided.
	Alternative Alternative

	// Seed fixes the randomization for exact reproducibility. 0 seeds from
	// the wall clock, making each call independently randomized.
	Seed int64

	// Workers caps the goroutines used across replicates. 0 means
	// GOMAXPROCS, 1 forces serial execution. Results are identical for any
	// worker count under a fixed seed.
	Workers int

	// Build configures grid construction for both species and for every
	// relocated pseudo-niche.
	Build BuildParams
}

// Engine runs the niche overlap randomization test.
type Engine struct {
	opts Options
}

// NewEngine validates options and constructs an engine. Fails with
// ReplicateCountError if the replicate count is explicitly non-positive.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Replicates == 0 {
		opts.Replicates = DefaultReplicates
	}
	if opts.Replicates < 1 {
		return nil, &ReplicateCountError{N: opts.Replicates}
	}
	if opts.TestType == "" {
		opts.TestType = Asymmetric
	}
	if opts.TestType != Asymmetric && opts.TestType != Symmetric {
		return nil, &points.InvalidInputError{Reason: "unknown test type " + string(opts.TestType)}
	}
	if opts.Alternative == "" {
		opts.Alternative = Greater
	}
	if opts.Alternative != Greater && opts.Alternative != Lower {
		return nil, &points.InvalidInputError{Reason: "unknown alternative " + string(opts.Alternative)}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{opts: opts}, nil
}

// Run builds both species' niche grids over the shared extent, computes the
// observed D and I, generates the null distribution by relocating niches
// within the background, and assembles the result. Precondition failures
// surface before any replicate runs; there is no partial result.
func (e *Engine) Run(sp1, sp2 *points.Species, extent *points.Set) (*Result, error) {
	if sp1 == nil || sp2 == nil {
		return nil, &points.InvalidInputError{Reason: "both species records are required"}
	}
	if !sp1.Occurrences.SameDims(sp2.Occurrences) {
		return nil, &points.InvalidInputError{
			Reason: "species " + sp1.Name + " and " + sp2.Name + " use different predictor dimensions",
		}
	}

	g1, err := BuildGrid(sp1, extent, e.opts.Build)
	if err != nil {
		return nil, err
	}
	g2, err := BuildGrid(sp2, extent, e.opts.Build)
	if err != nil {
		return nil, err
	}

	observed, err := ComputeOverlap(g1.Corrected, g2.Corrected)
	if err != nil {
		return nil, err
	}

	seed := e.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	simD, simI := e.simulate(seed, sp1, sp2, g1, g2)

	var pD, pI float64
	if e.opts.TestType == Symmetric {
		pD = pValueTwoSided(simD, observed.D)
		pI = pValueTwoSided(simI, observed.I)
	} else {
		pD = pValueOneSided(simD, observed.D, e.opts.Alternative)
		pI = pValueOneSided(simI, observed.I, e.opts.Alternative)
	}

	return &Result{
		Species1:    sp1.Name,
		Species2:    sp2.Name,
		Observed:    observed,
		SimD:        simD,
		SimI:        simI,
		PValueD:     pD,
		PValueI:     pI,
		Replicates:  e.opts.Replicates,
		TestType:    e.opts.TestType,
		Alternative: e.opts.Alternative,
		Seed:        seed,
		Grid1:       g1,
		Grid2:       g2,
	}, nil
}

// simulate fills the null distribution. Replicates are shared-nothing: each
// reads the fixed grids and samplers and writes only its own slot, so they
// run chunked across workers without locking. Per-replicate RNGs are seeded
// from the master seed up front, making the sequences independent of worker
// count and scheduling.
func (e *Engine) simulate(seed int64, sp1, sp2 *points.Species, g1, g2 *Grid) (simD, simI []float64) {
	n := e.opts.Replicates
	simD = make([]float64, n)
	simI = make([]float64, n)

	master := rand.New(rand.NewSource(seed))
	repSeeds := make([]int64, n)
	for i := range repSeeds {
		repSeeds[i] = master.Int63()
	}

	sampler1 := newAvailabilitySampler(g1.Availability)
	var sampler2 *availabilitySampler
	if e.opts.TestType == Symmetric {
		sampler2 = newAvailabilitySampler(g2.Availability)
	}

	replicate := func(i int) {
		rng := rand.New(rand.NewSource(repSeeds[i]))

		corr1 := e.pseudoCorrected(rng, sampler1, g1, sp1.Occurrences)
		corr2 := g2.Corrected
		if sampler2 != nil {
			corr2 = e.pseudoCorrected(rng, sampler2, g2, sp2.Occurrences)
		}

		// SameShape holds by construction, so the error path is dead here.
		ov, _ := ComputeOverlap(corr1, corr2)
		simD[i] = ov.D
		simI[i] = ov.I
	}

	workers := e.opts.Workers
	if n < serialThreshold || workers == 1 {
		for i := 0; i < n; i++ {
			replicate(i)
		}
		return simD, simI
	}

	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				replicate(i)
			}
		}(start, end)
	}
	wg.Wait()

	return simD, simI
}

// pseudoCorrected relocates a species' occurrence sample within its
// availability surface and rebuilds the corrected surface the same way
// BuildGrid does, reusing the fixed availability grid and its cutoff.
func (e *Engine) pseudoCorrected(rng *rand.Rand, s *availabilitySampler, g *Grid, template *points.Set) *density.Grid {
	pseudo := s.relocate(rng, g.NumOccurrences, template)
	occ := density.Estimate(pseudo, g.Availability.Bounds, g.Availability.R)
	return correctedSurface(occ, g.Availability, g.AvailabilityCutoff, e.opts.Build.ThSp)
}

// pValueOneSided is the rank-based permutation p-value
// (1 + #{sim as or more extreme than observed}) / (1 + N), oriented by the
// alternative. The minimum attainable value with N replicates is 1/(N+1).
func pValueOneSided(sim []float64, observed float64, alt Alternative) float64 {
	count := 0
	for _, v := range sim {
		if alt == Greater && v >= observed {
			count++
		}
		if alt == Lower && v <= observed {
			count++
		}
	}
	return float64(1+count) / float64(1+len(sim))
}

// pValueTwoSided doubles the smaller tail, capped at 1.
func pValueTwoSided(sim []float64, observed float64) float64 {
	lo := pValueOneSided(sim, observed, Lower)
	hi := pValueOneSided(sim, observed, Greater)
	p := 2 * lo
	if hi < lo {
		p = 2 * hi
	}
	if p > 1 {
		return 1
	}
	return p
}
