// Package config provides configuration loading and access for the niche
// overlap analysis.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all analysis configuration parameters.
type Config struct {
	Grid       GridConfig      `yaml:"grid"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Test       TestConfig      `yaml:"test"`
	Input      InputConfig     `yaml:"input"`
	Output     OutputConfig    `yaml:"output"`
}

// GridConfig holds density grid parameters.
type GridConfig struct {
	Resolution int     `yaml:"resolution"` // Grid side length R, shared by all surfaces in a run
	Margin     float64 `yaml:"margin"`     // Fraction of the extent range added on each side
}

// ThresholdConfig holds the quantile cutoffs zeroing low-density cells.
type ThresholdConfig struct {
	Species     float64 `yaml:"species"`     // th.sp: cutoff on occurrence and corrected surfaces
	Environment float64 `yaml:"environment"` // th.env: cutoff on the availability surface
}

// TestConfig holds randomization test parameters.
type TestConfig struct {
	Replicates  int    `yaml:"replicates"`  // Null-distribution sample size N
	Type        string `yaml:"type"`        // asymmetric or symmetric
	Alternative string `yaml:"alternative"` // greater (conservatism) or lower (divergence)
	Workers     int    `yaml:"workers"`     // Goroutines across replicates (0 = GOMAXPROCS)
	Seed        int64  `yaml:"seed"`        // RNG seed (0 = time-based)
}

// InputConfig names the two predictor dimensions the point tables were
// extracted on.
type InputConfig struct {
	XDimension string `yaml:"x_dimension"`
	YDimension string `yaml:"y_dimension"`
}

// OutputConfig holds result output parameters.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Output directory for CSV results ("" = disabled)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills unset fields with usable values. Semantic validation
// (threshold ranges, test type names) happens in the engine so misuse fails
// with the typed errors callers handle.
func (c *Config) applyDefaults() {
	if c.Grid.Resolution == 0 {
		c.Grid.Resolution = 100
	}
	// Margin is not coerced: zero is a meaningful value (no extent padding)
	// and the embedded defaults already carry 0.05 for the unset case.
	if c.Test.Replicates == 0 {
		c.Test.Replicates = 99
	}
	if c.Test.Type == "" {
		c.Test.Type = "asymmetric"
	}
	if c.Test.Alternative == "" {
		c.Test.Alternative = "greater"
	}
	if c.Input.XDimension == "" {
		c.Input.XDimension = "env1"
	}
	if c.Input.YDimension == "" {
		c.Input.YDimension = "env2"
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
