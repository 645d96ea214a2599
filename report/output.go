// Package report writes randomization test results as CSV tables and a
// config snapshot, keeping presentation out of the core engine.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/nicheperm/config"
	"github.com/pthm-cable/nicheperm/niche"
)

// SummaryRecord is the one-row observed/p-value summary written to
// summary.csv.
type SummaryRecord struct {
	Species1    string  `csv:"species1"`
	Species2    string  `csv:"species2"`
	ObservedD   float64 `csv:"observed_d"`
	ObservedI   float64 `csv:"observed_i"`
	PValueD     float64 `csv:"p_value_d"`
	PValueI     float64 `csv:"p_value_i"`
	Replicates  int     `csv:"replicates"`
	TestType    string  `csv:"test_type"`
	Alternative string  `csv:"alternative"`
	Seed        int64   `csv:"seed"`
}

// ReplicateRecord is one simulated overlap pair written to replicates.csv.
type ReplicateRecord struct {
	Replicate int     `csv:"replicate"`
	D         float64 `csv:"d"`
	I         float64 `csv:"i"`
}

// OutputManager handles structured result output. A nil manager (output
// disabled) is safe to call.
type OutputManager struct {
	dir string
}

// NewOutputManager creates the output directory. Returns nil if dir is empty
// (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputManager{dir: dir}, nil
}

// WriteConfig saves the configuration used for the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteResult writes summary.csv and replicates.csv for a test result.
func (om *OutputManager) WriteResult(res *niche.Result) error {
	if om == nil {
		return nil
	}

	summary := []SummaryRecord{{
		Species1:    res.Species1,
		Species2:    res.Species2,
		ObservedD:   res.Observed.D,
		ObservedI:   res.Observed.I,
		PValueD:     res.PValueD,
		PValueI:     res.PValueI,
		Replicates:  res.Replicates,
		TestType:    string(res.TestType),
		Alternative: string(res.Alternative),
		Seed:        res.Seed,
	}}
	if err := om.writeCSV("summary.csv", summary); err != nil {
		return err
	}

	reps := make([]ReplicateRecord, len(res.SimD))
	for i := range reps {
		reps[i] = ReplicateRecord{Replicate: i + 1, D: res.SimD[i], I: res.SimI[i]}
	}
	return om.writeCSV("replicates.csv", reps)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

func (om *OutputManager) writeCSV(name string, records interface{}) error {
	path := filepath.Join(om.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
