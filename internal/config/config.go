// Package config provides configuration loading for taskpipe.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config is the full taskpipe configuration.
type Config struct {
	Stores     StoresConfig     `koanf:"stores"`
	Thresholds ThresholdsConfig `koanf:"thresholds"`
	Extract    ExtractConfig    `koanf:"extract"`
	Team       TeamConfig       `koanf:"team"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// StoresConfig locates the persisted JSON stores and the workspace
// hierarchy snapshot.
type StoresConfig struct {
	PatternsPath  string `koanf:"patterns_path"`
	LedgerPath    string `koanf:"ledger_path"`
	HierarchyPath string `koanf:"hierarchy_path"`
}

// ThresholdsConfig carries the matching thresholds. All are in [0,1].
type ThresholdsConfig struct {
	// TaskOverride is the minimum task-level confidence that overrides
	// the meeting-level destination.
	TaskOverride float64 `koanf:"task_override"`

	// Duplicate is the minimum name similarity for duplicate detection.
	Duplicate float64 `koanf:"duplicate"`

	// Fuzzy is the minimum combined score for a fuzzy hierarchy match.
	Fuzzy float64 `koanf:"fuzzy"`
}

// ExtractConfig tunes action-item extraction.
type ExtractConfig struct {
	KnownFirstNames  []string `koanf:"known_first_names"`
	IgnoredAssignees []string `koanf:"ignored_assignees"`
	MinLineLength    int      `koanf:"min_line_length"`
}

// TeamConfig maps assignee names to tracker member IDs.
type TeamConfig struct {
	Members map[string]string `koanf:"members"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// NewDefaultConfig returns a config with working defaults. The store
// paths are relative to the working directory and the thresholds match
// the values the matchers were tuned with.
func NewDefaultConfig() *Config {
	return &Config{
		Stores: StoresConfig{
			PatternsPath:  "data/meeting_patterns_learned.json",
			LedgerPath:    "data/processed_meetings.json",
			HierarchyPath: "data/workspace_hierarchy.json",
		},
		Thresholds: ThresholdsConfig{
			TaskOverride: 0.7,
			Duplicate:    0.85,
			Fuzzy:        0.5,
		},
		Extract: ExtractConfig{
			MinLineLength: 15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.Stores.PatternsPath == "" {
		return fmt.Errorf("stores.patterns_path must not be empty")
	}
	if c.Stores.LedgerPath == "" {
		return fmt.Errorf("stores.ledger_path must not be empty")
	}

	for name, v := range map[string]float64{
		"thresholds.task_override": c.Thresholds.TaskOverride,
		"thresholds.duplicate":     c.Thresholds.Duplicate,
		"thresholds.fuzzy":         c.Thresholds.Fuzzy,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}

	if c.Extract.MinLineLength < 0 {
		return fmt.Errorf("extract.min_line_length must not be negative")
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
