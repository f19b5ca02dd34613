package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
)

var (
	correctKind    string
	correctFolder  string
	correctList    string
	correctListID  string
	correctMeeting string
	correctNotes   string

	aliasFolder    string
	aliasList      string
	aliasTaskLevel bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage learned destination patterns",
}

var patternsCorrectCmd = &cobra.Command{
	Use:   "correct <pattern-key>",
	Short: "Record a destination correction as a learned pattern",
	Long: `Record a destination correction as a learned pattern.

The pattern key is the phrase to learn, e.g. a normalized meeting title
for --kind title_patterns or "+"-joined words for keyword and participant
patterns. Repeating a correction for an existing key raises its
confidence.

Examples:
  taskpipe patterns correct "chad drew rose standup" \
    --kind title_patterns --folder Bitkey --list Packaging --list-id 901234

  taskpipe patterns correct "overlay+packaging" \
    --kind keyword_patterns --folder Bitkey --list "Overlay Tests" --list-id 901235`,
	Args: cobra.ExactArgs(1),
	RunE: runPatternsCorrect,
}

var patternsAliasCmd = &cobra.Command{
	Use:   "alias <alias>",
	Short: "Register a project alias",
	Long: `Register a project alias that maps mention of a project name to its
folder and list. Use --task-level for aliases matched against individual
task text instead of whole meetings.

Examples:
  taskpipe patterns alias "go puff" --folder Gopuff --list "NYE Campaign"
  taskpipe patterns alias bitkey --task-level --folder Bitkey --list Packaging`,
	Args: cobra.ExactArgs(1),
	RunE: runPatternsAlias,
}

var patternsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pattern learning statistics",
	RunE:  runPatternsStats,
}

func init() {
	patternsCorrectCmd.Flags().StringVar(&correctKind, "kind", string(patterns.KindTitle), "pattern kind (title_patterns, keyword_patterns, participant_patterns, task_level/...)")
	patternsCorrectCmd.Flags().StringVar(&correctFolder, "folder", "", "destination folder name")
	patternsCorrectCmd.Flags().StringVar(&correctList, "list", "", "destination list name")
	patternsCorrectCmd.Flags().StringVar(&correctListID, "list-id", "", "destination list ID")
	patternsCorrectCmd.Flags().StringVar(&correctMeeting, "meeting", "", "meeting title the correction came from")
	patternsCorrectCmd.Flags().StringVar(&correctNotes, "notes", "", "free-form notes stored with the pattern")
	_ = patternsCorrectCmd.MarkFlagRequired("folder")
	_ = patternsCorrectCmd.MarkFlagRequired("list")

	patternsAliasCmd.Flags().StringVar(&aliasFolder, "folder", "", "destination folder name")
	patternsAliasCmd.Flags().StringVar(&aliasList, "list", "", "destination list name")
	patternsAliasCmd.Flags().BoolVar(&aliasTaskLevel, "task-level", false, "register as a task-level alias")
	_ = patternsAliasCmd.MarkFlagRequired("folder")
	_ = patternsAliasCmd.MarkFlagRequired("list")

	patternsCmd.AddCommand(patternsCorrectCmd)
	patternsCmd.AddCommand(patternsAliasCmd)
	patternsCmd.AddCommand(patternsStatsCmd)
}

func runPatternsCorrect(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := patterns.Open(cfg.Stores.PatternsPath)
	if err != nil {
		return err
	}

	dest := patterns.Destination{
		FolderName: correctFolder,
		ListName:   correctList,
		ListID:     correctListID,
	}
	example := patterns.Example{
		MeetingTitle: correctMeeting,
		Context:      correctNotes,
	}

	if err := store.RecordCorrection(patterns.Kind(correctKind), args[0], dest, example); err != nil {
		return err
	}

	fmt.Printf("Learned %s pattern %q → %s > %s\n", correctKind, args[0], correctFolder, correctList)
	return nil
}

func runPatternsAlias(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := patterns.Open(cfg.Stores.PatternsPath)
	if err != nil {
		return err
	}

	kind := patterns.KindAlias
	if aliasTaskLevel {
		kind = patterns.KindTaskAlias
	}

	dest := patterns.Destination{FolderName: aliasFolder, ListName: aliasList}
	if err := store.AddAlias(kind, args[0], dest); err != nil {
		return err
	}

	fmt.Printf("Registered alias %q → %s > %s\n", args[0], aliasFolder, aliasList)
	return nil
}

func runPatternsStats(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := patterns.Open(cfg.Stores.PatternsPath)
	if err != nil {
		return err
	}

	return printJSON(store.Stats())
}
