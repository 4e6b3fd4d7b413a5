// Package config holds the options of an extraction run and loads them from
// defaults, an optional YAML file, and LUXSCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/abhisek/luxscan/internal/classify"
	"gopkg.in/yaml.v3"
)

// Config holds all extraction options.
type Config struct {
	// TextCols are the columns combined into the search text, in order.
	// Empty means auto-detect.
	TextCols []string `yaml:"text_cols"`

	// CFRCol holds the standard/citation code. Empty means guess.
	CFRCol string `yaml:"cfr_col"`

	// DateCol holds the date the year is resolved from. Empty means guess.
	DateCol string `yaml:"date_col"`

	// NAICSCol is carried through to output when present.
	NAICSCol string `yaml:"naics_col"`

	// KeepTags are the tags retained by the filter.
	KeepTags []string `yaml:"keep_tags"`

	// MinScore is the inclusive score floor of the filter. Default: 2.
	MinScore int `yaml:"min_score"`

	// BroadOnly classifies only records carrying broad lighting vocabulary.
	BroadOnly bool `yaml:"broad_only"`

	// Workers is the number of parallel classification shards.
	// Default: GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Ruleset is an optional JSON file overriding the built-in patterns.
	Ruleset string `yaml:"ruleset"`

	// Exclude lists input file base names skipped during discovery.
	Exclude []string `yaml:"exclude"`

	// SQLiteTable is the table read from .db/.sqlite inputs.
	// Default: "violations".
	SQLiteTable string `yaml:"sqlite_table"`

	// InspectionsTable is the table read from .db/.sqlite inspection inputs
	// of the sector breakdown. Default: "inspections".
	InspectionsTable string `yaml:"inspections_table"`
}

// ConfigError reports an invalid option. It is always fatal and is raised
// before any record is processed.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns a Config with the built-in defaults.
func Default() Config {
	keep := classify.DefaultKeepTags()
	tags := make([]string, len(keep))
	for i, t := range keep {
		tags[i] = string(t)
	}
	return Config{
		KeepTags:         tags,
		MinScore:         2,
		Workers:          runtime.GOMAXPROCS(0),
		SQLiteTable:      "violations",
		InspectionsTable: "inspections",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays LUXSCAN_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("LUXSCAN_TEXT_COLS"); v != "" {
		cfg.TextCols = ParseList(v)
	}
	if v := getenv("LUXSCAN_CFR_COL"); v != "" {
		cfg.CFRCol = v
	}
	if v := getenv("LUXSCAN_DATE_COL"); v != "" {
		cfg.DateCol = v
	}
	if v := getenv("LUXSCAN_NAICS_COL"); v != "" {
		cfg.NAICSCol = v
	}
	if v := getenv("LUXSCAN_KEEP_TAGS"); v != "" {
		cfg.KeepTags = ParseList(v)
	}
	if v := getenv("LUXSCAN_MIN_SCORE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "min_score", Value: v, Err: err}
		}
		cfg.MinScore = n
	}
	if v := getenv("LUXSCAN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "workers", Value: v, Err: err}
		}
		cfg.Workers = n
	}
	if v := getenv("LUXSCAN_RULESET"); v != "" {
		cfg.Ruleset = v
	}
	if v := getenv("LUXSCAN_SQLITE_TABLE"); v != "" {
		cfg.SQLiteTable = v
	}
	if v := getenv("LUXSCAN_INSPECTIONS_TABLE"); v != "" {
		cfg.InspectionsTable = v
	}
	return nil
}

// Validate checks every option. Unknown tags in KeepTags are rejected.
func (c Config) Validate() error {
	if _, err := c.Tags(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Value: strconv.Itoa(c.Workers), Err: errors.New("must be >= 0")}
	}
	return nil
}

// Tags parses KeepTags.
func (c Config) Tags() ([]classify.Tag, error) {
	out := make([]classify.Tag, 0, len(c.KeepTags))
	for _, s := range c.KeepTags {
		t, err := classify.ParseTag(s)
		if err != nil {
			return nil, &ConfigError{Field: "keep_tags", Value: s, Err: err}
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseList splits a comma-separated list, trimming items and dropping
// empties.
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
