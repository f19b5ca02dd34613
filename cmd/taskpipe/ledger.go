package main

import (
	"github.com/spf13/cobra"

	"github.com/gutfeelinglabs/taskpipe/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the processed-meetings ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed meetings as JSON",
	RunE:  runLedgerList,
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd)
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	led, err := ledger.Open(cfg.Stores.LedgerPath)
	if err != nil {
		return err
	}

	return printJSON(led.Records())
}
