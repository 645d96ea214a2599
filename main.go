package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/nicheperm/config"
	"github.com/pthm-cable/nicheperm/niche"
	"github.com/pthm-cable/nicheperm/points"
	"github.com/pthm-cable/nicheperm/report"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	occPath := flag.String("occurrences", "", "CSV of occurrence points (species,x,y) for both species")
	bgPath := flag.String("background", "", "CSV of background points (species,x,y); all rows form the shared extent")
	species1 := flag.String("species1", "", "Name of the first species (the relocated niche in asymmetric mode)")
	species2 := flag.String("species2", "", "Name of the second species")
	reps := flag.Int("reps", 0, "Randomization replicates (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, which defaults to time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV results (overrides config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *occPath == "" || *bgPath == "" || *species1 == "" || *species2 == "" {
		slog.Error("missing required flags: -occurrences, -background, -species1, -species2")
		os.Exit(1)
	}

	// CLI overrides
	if *reps > 0 {
		cfg.Test.Replicates = *reps
	}
	if *seed != 0 {
		cfg.Test.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	sp1, sp2, extent, err := loadInputs(*occPath, *bgPath, *species1, *species2, cfg)
	if err != nil {
		slog.Error("failed to load inputs", "error", err)
		os.Exit(1)
	}

	engine, err := niche.NewEngine(niche.Options{
		Replicates:  cfg.Test.Replicates,
		TestType:    niche.TestType(cfg.Test.Type),
		Alternative: niche.Alternative(cfg.Test.Alternative),
		Seed:        cfg.Test.Seed,
		Workers:     cfg.Test.Workers,
		Build: niche.BuildParams{
			Resolution: cfg.Grid.Resolution,
			Margin:     cfg.Grid.Margin,
			ThSp:       cfg.Thresholds.Species,
			ThEnv:      cfg.Thresholds.Environment,
		},
	})
	if err != nil {
		slog.Error("invalid test options", "error", err)
		os.Exit(1)
	}

	slog.Info("starting niche overlap test",
		"species1", sp1.Name,
		"species2", sp2.Name,
		"occurrences1", sp1.Occurrences.Len(),
		"occurrences2", sp2.Occurrences.Len(),
		"extent_points", extent.Len(),
		"resolution", cfg.Grid.Resolution,
		"replicates", cfg.Test.Replicates,
		"test_type", cfg.Test.Type,
	)

	result, err := engine.Run(sp1, sp2, extent)
	if err != nil {
		slog.Error("test failed", "error", err)
		os.Exit(1)
	}

	slog.Info("test complete", "result", result)

	om, err := report.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}
	if err := om.WriteResult(result); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
	if om != nil {
		slog.Info("results written", "dir", om.Dir())
	}
}

// loadInputs reads the occurrence and background tables and assembles the
// two species records and the shared environmental extent.
func loadInputs(occPath, bgPath, name1, name2 string, cfg *config.Config) (sp1, sp2 *points.Species, extent *points.Set, err error) {
	dimX := cfg.Input.XDimension
	dimY := cfg.Input.YDimension

	occRecords, err := points.ReadRecords(occPath)
	if err != nil {
		return nil, nil, nil, err
	}
	bgRecords, err := points.ReadRecords(bgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	extent, err = points.SetFromAllRecords(bgRecords, "background", dimX, dimY)
	if err != nil {
		return nil, nil, nil, err
	}

	build := func(name string) (*points.Species, error) {
		occ, err := points.SetFromRecords(occRecords, name, dimX, dimY)
		if err != nil {
			return nil, err
		}
		bg, err := points.BackgroundFromRecords(bgRecords, name, dimX, dimY)
		if err != nil {
			return nil, err
		}
		return points.NewSpecies(name, occ, bg)
	}

	if sp1, err = build(name1); err != nil {
		return nil, nil, nil, err
	}
	if sp2, err = build(name2); err != nil {
		return nil, nil, nil, err
	}
	return sp1, sp2, extent, nil
}
