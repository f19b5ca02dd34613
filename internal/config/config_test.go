package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/meeting_patterns_learned.json", cfg.Stores.PatternsPath)
	assert.Equal(t, 0.7, cfg.Thresholds.TaskOverride)
	assert.Equal(t, 0.85, cfg.Thresholds.Duplicate)
	assert.Equal(t, 0.5, cfg.Thresholds.Fuzzy)
	assert.Equal(t, 15, cfg.Extract.MinLineLength)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stores:
  patterns_path: /tmp/patterns.json
thresholds:
  duplicate: 0.9
extract:
  known_first_names:
    - drew
    - matt
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/patterns.json", cfg.Stores.PatternsPath)
	assert.Equal(t, 0.9, cfg.Thresholds.Duplicate)
	assert.Equal(t, []string{"drew", "matt"}, cfg.Extract.KnownFirstNames)
	assert.Equal(t, "console", cfg.Logging.Format)

	// Untouched sections keep their defaults.
	assert.Equal(t, "data/processed_meetings.json", cfg.Stores.LedgerPath)
	assert.Equal(t, 0.7, cfg.Thresholds.TaskOverride)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0600))

	t.Setenv("TASKPIPE_LOGGING_LEVEL", "warn")
	t.Setenv("TASKPIPE_THRESHOLDS_TASK_OVERRIDE", "0.8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 0.8, cfg.Thresholds.TaskOverride)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.85, cfg.Thresholds.Duplicate)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty patterns path", func(c *Config) { c.Stores.PatternsPath = "" }},
		{"empty ledger path", func(c *Config) { c.Stores.LedgerPath = "" }},
		{"threshold above one", func(c *Config) { c.Thresholds.Duplicate = 1.5 }},
		{"negative threshold", func(c *Config) { c.Thresholds.Fuzzy = -0.1 }},
		{"negative min line length", func(c *Config) { c.Extract.MinLineLength = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
