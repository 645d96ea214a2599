package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/nicheperm/config"
	"github.com/pthm-cable/nicheperm/niche"
)

func testResult() *niche.Result {
	return &niche.Result{
		Species1:    "spA",
		Species2:    "spB",
		Observed:    niche.Overlap{D: 0.42, I: 0.61},
		SimD:        []float64{0.1, 0.2, 0.3},
		SimI:        []float64{0.15, 0.25, 0.35},
		PValueD:     0.25,
		PValueI:     0.5,
		Replicates:  3,
		TestType:    niche.Asymmetric,
		Alternative: niche.Greater,
		Seed:        42,
	}
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should return a nil manager")
	}

	// A nil manager is safe to use.
	if err := om.WriteResult(testResult()); err != nil {
		t.Errorf("nil manager WriteResult returned %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil manager Dir() = %q", om.Dir())
	}
}

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteResult(testResult()); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	if err != nil {
		t.Fatalf("reading summary.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	if len(lines) != 2 {
		t.Fatalf("summary.csv has %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "species1,species2,observed_d") {
		t.Errorf("unexpected summary header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "spA,spB") {
		t.Errorf("unexpected summary row: %s", lines[1])
	}

	reps, err := os.ReadFile(filepath.Join(dir, "replicates.csv"))
	if err != nil {
		t.Fatalf("reading replicates.csv: %v", err)
	}
	repLines := strings.Split(strings.TrimSpace(string(reps)), "\n")
	if len(repLines) != 4 {
		t.Fatalf("replicates.csv has %d lines, want header + 3 rows", len(repLines))
	}
	if !strings.HasPrefix(repLines[0], "replicate,d,i") {
		t.Errorf("unexpected replicates header: %s", repLines[0])
	}
	if !strings.HasPrefix(repLines[1], "1,") {
		t.Errorf("replicate numbering should start at 1: %s", repLines[1])
	}
}

func TestWriteConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	config.MustInit("")
	cfg := config.Cfg()
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config snapshot: %v", err)
	}
	if reloaded.Grid.Resolution != cfg.Grid.Resolution {
		t.Errorf("snapshot resolution = %d, want %d", reloaded.Grid.Resolution, cfg.Grid.Resolution)
	}
}
