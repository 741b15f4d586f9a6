// Package config defines every tunable threshold of the validation
// pipeline and the diff engine as a named value. Nothing in the core
// packages hardcodes a gate: tests probe each boundary through here, and
// deployments can override individual values from a yaml file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default threshold values. These mirror the behavior the pipeline was
// tuned against; change them in config, not here.
const (
	DefaultSmallSizeLines  = 10
	DefaultMediumSizeLines = 40

	DefaultSmallSizeRatio  = 0.10
	DefaultMediumSizeRatio = 0.30
	DefaultLargeSizeRatio  = 0.40

	DefaultMinSimilarity  = 50
	DefaultHighSimilarity = 80

	DefaultConservativeCap = 70
	DefaultSimilarityCap   = 60
	DefaultRepairCap       = 50

	DefaultFuzzyPrefixLen = 10

	DefaultDiffMaxLines = 300
)

// EnvConfigPath names the environment variable consulted by Load when no
// explicit path is given.
const EnvConfigPath = "OPTIVET_CONFIG"

// Config holds all optivet configuration.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Diff       DiffConfig       `yaml:"diff"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ValidationConfig configures the accept/fallback pipeline.
type ValidationConfig struct {
	// Size-check ratio floor, scaled by how many meaningful lines the
	// original has. Strictly-below comparisons: a candidate exactly at
	// the floor passes.
	SmallSizeLines  int     `yaml:"small_size_lines"`
	SmallSizeRatio  float64 `yaml:"small_size_ratio"`
	MediumSizeLines int     `yaml:"medium_size_lines"`
	MediumSizeRatio float64 `yaml:"medium_size_ratio"`
	LargeSizeRatio  float64 `yaml:"large_size_ratio"`

	// Similarity gates. Below MinSimilarity the candidate is rejected as
	// a likely hallucination; below HighSimilarity an accepted candidate
	// has its confidence capped.
	MinSimilarity  int `yaml:"min_similarity"`
	HighSimilarity int `yaml:"high_similarity"`

	// Confidence caps, applied in this order on accept.
	ConservativeCap int `yaml:"conservative_cap"`
	SimilarityCap   int `yaml:"similarity_cap"`
	RepairCap       int `yaml:"repair_cap"`

	// FuzzyPrefixLen is the prefix length used by the line-similarity
	// fuzzy match.
	FuzzyPrefixLen int `yaml:"fuzzy_prefix_len"`

	// TrivialNames are conventional short variable names a faithful
	// rewrite routinely inlines. Single lowercase letters are always
	// trivial and need not be listed. Tuned to C-family and Python
	// conventions; extend per deployment for other idioms.
	TrivialNames []string `yaml:"trivial_names"`

	// ConservativeLanguages are memory-unsafe targets where any change
	// caps confidence at ConservativeCap.
	ConservativeLanguages []string `yaml:"conservative_languages"`
}

// DiffConfig configures the line-diff engine.
type DiffConfig struct {
	// MaxLines bounds each side of the LCS alignment. Lines past the cap
	// are reported in a single synthetic trailing entry.
	MaxLines int `yaml:"max_lines"`
}

// LoggingConfig configures pipeline logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Validation: ValidationConfig{
			SmallSizeLines:  DefaultSmallSizeLines,
			SmallSizeRatio:  DefaultSmallSizeRatio,
			MediumSizeLines: DefaultMediumSizeLines,
			MediumSizeRatio: DefaultMediumSizeRatio,
			LargeSizeRatio:  DefaultLargeSizeRatio,

			MinSimilarity:  DefaultMinSimilarity,
			HighSimilarity: DefaultHighSimilarity,

			ConservativeCap: DefaultConservativeCap,
			SimilarityCap:   DefaultSimilarityCap,
			RepairCap:       DefaultRepairCap,

			FuzzyPrefixLen: DefaultFuzzyPrefixLen,

			TrivialNames: []string{
				"tmp", "temp", "idx", "val", "err", "ret", "res",
				"acc", "cur", "prev", "next", "len", "num", "str",
				"obj", "arr", "el", "elem", "item", "it", "key",
			},
			ConservativeLanguages: []string{"c", "c++", "cpp"},
		},
		Diff: DiffConfig{
			MaxLines: DefaultDiffMaxLines,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, merging file values over defaults.
// An empty path consults OPTIVET_CONFIG; if that is also unset, defaults
// are returned as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	v := c.Validation
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"small_size_ratio", v.SmallSizeRatio},
		{"medium_size_ratio", v.MediumSizeRatio},
		{"large_size_ratio", v.LargeSizeRatio},
	} {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", r.name, r.value)
		}
	}
	for _, g := range []struct {
		name  string
		value int
	}{
		{"min_similarity", v.MinSimilarity},
		{"high_similarity", v.HighSimilarity},
		{"conservative_cap", v.ConservativeCap},
		{"similarity_cap", v.SimilarityCap},
		{"repair_cap", v.RepairCap},
	} {
		if g.value < 0 || g.value > 100 {
			return fmt.Errorf("%s must be within [0,100], got %d", g.name, g.value)
		}
	}
	if v.FuzzyPrefixLen <= 0 {
		return fmt.Errorf("fuzzy_prefix_len must be positive, got %d", v.FuzzyPrefixLen)
	}
	if c.Diff.MaxLines <= 0 {
		return fmt.Errorf("diff max_lines must be positive, got %d", c.Diff.MaxLines)
	}
	return nil
}

// IsConservativeLanguage reports whether lang is a memory-unsafe target
// that triggers the conservative confidence cap.
func (c *Config) IsConservativeLanguage(lang string) bool {
	for _, l := range c.Validation.ConservativeLanguages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

// IsTrivialName reports whether name is routinely inlined by a faithful
// rewrite: a single lowercase letter or an allowlisted short name.
func (c *Config) IsTrivialName(name string) bool {
	if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
		return true
	}
	for _, n := range c.Validation.TrivialNames {
		if n == name {
			return true
		}
	}
	return false
}
