// Package main implements the taskpipe CLI: plan meeting runs, manage
// learned patterns, and inspect the processed-meetings ledger.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/classify"
	"github.com/gutfeelinglabs/taskpipe/internal/config"
	"github.com/gutfeelinglabs/taskpipe/internal/logging"
	"github.com/gutfeelinglabs/taskpipe/internal/reconcile"
)

var (
	configPath string

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskpipe",
	Short: "Turn meeting notes into tracker task plans",
	Long: `taskpipe extracts action items from meeting notes, classifies them to
tracker destinations using learned patterns, and reconciles them against
existing tasks so nothing is created twice.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(ledgerCmd)
}

// loadConfig loads configuration and builds the logger every command
// shares.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadHierarchy reads the workspace hierarchy snapshot. A missing file is
// an empty hierarchy, which disables fuzzy matching and alias resolution
// but not learned patterns.
func loadHierarchy(path string) (classify.Hierarchy, error) {
	var h classify.Hierarchy
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return h, fmt.Errorf("failed to read hierarchy snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("failed to parse hierarchy snapshot %s: %w", path, err)
	}
	return h, nil
}

// loadTaskSnapshot reads existing tasks keyed by list ID.
func loadTaskSnapshot(path string) (map[string][]reconcile.ExistingTask, error) {
	snapshot := make(map[string][]reconcile.ExistingTask)
	if path == "" {
		return snapshot, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, nil
		}
		return nil, fmt.Errorf("failed to read task snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse task snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
