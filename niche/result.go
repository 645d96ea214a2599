package niche

import "log/slog"

// Result packages one randomization test run: observed statistics, the
// simulated null distributions, p-values, and the two niche grids for
// downstream reporting. Immutable once produced; no computation happens
// here.
type Result struct {
	Species1 string
	Species2 string

	Observed Overlap

	// SimD and SimI are the simulated null samples, one value per
	// replicate.
	SimD []float64
	SimI []float64

	PValueD float64
	PValueI float64

	Replicates  int
	TestType    TestType
	Alternative Alternative

	// Seed is the seed actually used, including the wall-clock seed chosen
	// when Options.Seed was 0, so any run can be reproduced exactly.
	Seed int64

	Grid1 *Grid
	Grid2 *Grid
}

// PValues returns the p-values keyed by statistic name.
func (r *Result) PValues() map[string]float64 {
	return map[string]float64{"D": r.PValueD, "I": r.PValueI}
}

// LogValue implements slog.LogValuer for structured logging.
func (r *Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("species1", r.Species1),
		slog.String("species2", r.Species2),
		slog.Float64("observed_d", r.Observed.D),
		slog.Float64("observed_i", r.Observed.I),
		slog.Float64("p_value_d", r.PValueD),
		slog.Float64("p_value_i", r.PValueI),
		slog.Int("replicates", r.Replicates),
		slog.String("test_type", string(r.TestType)),
		slog.String("alternative", string(r.Alternative)),
		slog.Int64("seed", r.Seed),
	)
}
