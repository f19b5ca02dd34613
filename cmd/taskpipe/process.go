package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/classify"
	"github.com/gutfeelinglabs/taskpipe/internal/extract"
	"github.com/gutfeelinglabs/taskpipe/internal/ledger"
	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
	"github.com/gutfeelinglabs/taskpipe/internal/pipeline"
	"github.com/gutfeelinglabs/taskpipe/internal/reconcile"
	"github.com/gutfeelinglabs/taskpipe/internal/similarity"
)

var (
	processTitle   string
	processDocID   string
	processEmailID string
	processTasks   string
	processRecord  bool
)

var processCmd = &cobra.Command{
	Use:   "process <meeting-file>",
	Short: "Plan tracker tasks for a meeting notes file",
	Long: `Plan tracker tasks for a meeting notes file.

The meeting file is either a JSON document with doc_id, email_id, title
and content fields, or a plain text file combined with --title. The plan
is printed as JSON; pass --record to mark the meeting as processed in the
ledger afterwards.

Examples:
  # Plan from a JSON meeting export
  taskpipe process meeting.json

  # Plan from raw notes, reconciling against a task snapshot
  taskpipe process notes.txt --title "BevMo Weekly - Oct 17, 2025" --tasks tasks.json

  # Plan and record the meeting as processed
  taskpipe process meeting.json --record`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processTitle, "title", "", "meeting title (for plain text input)")
	processCmd.Flags().StringVar(&processDocID, "doc-id", "", "document ID for ledger idempotency")
	processCmd.Flags().StringVar(&processEmailID, "email-id", "", "email ID for ledger idempotency")
	processCmd.Flags().StringVar(&processTasks, "tasks", "", "JSON snapshot of existing tasks keyed by list ID")
	processCmd.Flags().BoolVar(&processRecord, "record", false, "record the meeting in the ledger after planning")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	meeting, err := readMeeting(args[0])
	if err != nil {
		return err
	}

	store, err := patterns.Open(cfg.Stores.PatternsPath)
	if err != nil {
		return err
	}
	led, err := ledger.Open(cfg.Stores.LedgerPath)
	if err != nil {
		return err
	}
	hierarchy, err := loadHierarchy(cfg.Stores.HierarchyPath)
	if err != nil {
		return err
	}
	snapshot, err := loadTaskSnapshot(processTasks)
	if err != nil {
		return err
	}

	extractCfg := extract.DefaultConfig()
	if len(cfg.Extract.KnownFirstNames) > 0 {
		extractCfg.KnownFirstNames = cfg.Extract.KnownFirstNames
	}
	if len(cfg.Extract.IgnoredAssignees) > 0 {
		extractCfg.IgnoredAssignees = cfg.Extract.IgnoredAssignees
	}
	if cfg.Extract.MinLineLength > 0 {
		extractCfg.MinLineLength = cfg.Extract.MinLineLength
	}

	classifyCfg := classify.Config{
		FuzzyThreshold:        cfg.Thresholds.Fuzzy,
		TaskOverrideThreshold: cfg.Thresholds.TaskOverride,
	}

	svc := pipeline.NewService(
		extract.NewExtractor(extractCfg, extract.MapDirectory(cfg.Team.Members), logger),
		classify.NewClassifier(store.Snapshot(), hierarchy, classifyCfg, logger),
		reconcile.NewReconciler(logger,
			reconcile.WithThreshold(cfg.Thresholds.Duplicate),
			reconcile.WithSimilarity(similarity.Ratio)),
		led,
		pipeline.StaticSource(snapshot),
		cfg.Team.Members,
		logger,
	)

	plan, err := svc.Plan(cmd.Context(), meeting)
	if err != nil {
		return err
	}

	if err := printJSON(plan); err != nil {
		return err
	}

	if processRecord && !plan.AlreadyProcessed {
		var created []ledger.CreatedTask
		for _, task := range plan.Creates() {
			created = append(created, ledger.CreatedTask{
				TaskName: task.Name,
				ListID:   task.Destination.Destination.ListID,
			})
		}
		if err := svc.Complete(plan, created); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Recorded meeting %q in ledger (%d tasks)\n",
			meeting.Title, len(created))
	}

	// Applying a learned pattern successfully feeds the accuracy stats.
	if plan.MeetingMatchOK && plan.MeetingMatch.Source != "fuzzy_match" {
		if err := store.RecordApplication(true); err != nil {
			logger.Warn("failed to update pattern statistics", zap.Error(err))
		}
	}

	return nil
}

// readMeeting loads the meeting from a JSON export or, for any other
// extension, treats the file as raw notes with the title taken from
// --title or the file name.
func readMeeting(path string) (pipeline.Meeting, error) {
	var meeting pipeline.Meeting

	data, err := os.ReadFile(path)
	if err != nil {
		return meeting, fmt.Errorf("failed to read meeting file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &meeting); err != nil {
			return meeting, fmt.Errorf("failed to parse meeting file %s: %w", path, err)
		}
	} else {
		meeting.Content = string(data)
	}

	if processTitle != "" {
		meeting.Title = processTitle
	}
	if meeting.Title == "" {
		meeting.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if processDocID != "" {
		meeting.DocID = processDocID
	}
	if processEmailID != "" {
		meeting.EmailID = processEmailID
	}

	if strings.TrimSpace(meeting.Content) == "" {
		return meeting, fmt.Errorf("meeting file %s has no content", path)
	}
	return meeting, nil
}
