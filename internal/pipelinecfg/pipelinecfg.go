// Package pipelinecfg loads the YAML configuration that controls which
// pipeline stages run and what size guards they enforce, the way the
// teacher's internal/ext package loads funxy.yaml: a struct with yaml
// tags, Load/Parse entry points, a validate pass, and a setDefaults pass.
package pipelinecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls one compilation run end to end.
type Config struct {
	// Analysis toggles the 0-CFA branch (label, generate, solve, mark).
	// Defaults to true: a CPS-only compile (Analysis: false) skips CFA
	// entirely and produces no Mark array.
	Analysis *bool `yaml:"analysis,omitempty"`

	// Compile toggles the CPS branch (transform, de Bruijn index).
	// Defaults to true.
	Compile *bool `yaml:"compile,omitempty"`

	// MaxLabels bounds how many labels the Labeler may allocate before
	// aborting; 0 means unlimited. Guards against runaway input on
	// untrusted programs.
	MaxLabels int `yaml:"max_labels,omitempty"`

	// MaxConstraints bounds the constraint set the generator may produce;
	// 0 means unlimited.
	MaxConstraints int `yaml:"max_constraints,omitempty"`

	// Cache, when non-empty, names the sqlite file anacache should use to
	// memoize analysis results across runs. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`
}

// defaultConfig mirrors what a zero-value funxy.yaml effectively behaves
// like in the teacher: every toggle on, every guard unlimited.
func defaultConfig() Config {
	t := true
	return Config{Analysis: &t, Compile: &t}
}

// RunAnalysis reports whether the analysis branch should run.
func (c Config) RunAnalysis() bool { return c.Analysis == nil || *c.Analysis }

// RunCompile reports whether the CPS branch should run.
func (c Config) RunCompile() bool { return c.Compile == nil || *c.Compile }

// CacheEnabled reports whether a cache file was configured.
func (c Config) CacheEnabled() bool { return c.Cache != "" }

// Load reads and parses a pipeline config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipelinecfg: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses pipeline config YAML from bytes. path is used only in error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("pipelinecfg: parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration a caller gets when no file is supplied.
func Default() *Config {
	cfg := defaultConfig()
	return &cfg
}

func (c *Config) validate(path string) error {
	if c.MaxLabels < 0 {
		return fmt.Errorf("pipelinecfg: %s: max_labels must be non-negative", path)
	}
	if c.MaxConstraints < 0 {
		return fmt.Errorf("pipelinecfg: %s: max_constraints must be non-negative", path)
	}
	if !c.RunAnalysis() && !c.RunCompile() {
		return fmt.Errorf("pipelinecfg: %s: at least one of analysis or compile must be enabled", path)
	}
	return nil
}
