package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

const historyTimeFormat = "2006-01-02 15:04:05"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past export invocations",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [export-id]",
	Short: "Show one export invocation in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if exportStore == nil {
		return errors.New("export history not configured")
	}

	records, err := exportStore.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing exports: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No exports recorded.")
		return nil
	}

	for _, record := range records {
		state := string(record.State)
		if record.State == domain.StateError {
			state = "error: " + record.Error
		}
		cmd.Printf("%s  %s  %-8s  %-8s  %s\n",
			record.StartedAt.Format(historyTimeFormat),
			record.ID, record.Mode, state, record.EmployeeName)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if exportStore == nil {
		return errors.New("export history not configured")
	}

	record, err := exportStore.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no export with id %s", args[0])
		}
		return fmt.Errorf("getting export: %w", err)
	}

	cmd.Printf("Export:    %s\n", record.ID)
	cmd.Printf("Report:    %s\n", record.ReportID)
	cmd.Printf("Employee:  %s\n", record.EmployeeName)
	cmd.Printf("Mode:      %s\n", record.Mode)
	cmd.Printf("State:     %s\n", record.State)
	cmd.Printf("Started:   %s\n", record.StartedAt.Format(historyTimeFormat))
	cmd.Printf("Finished:  %s\n", record.FinishedAt.Format(historyTimeFormat))
	if len(record.Artifacts) > 0 {
		cmd.Printf("Artifacts: %s\n", strings.Join(record.Artifacts, ", "))
	}
	if record.Stats.Attempted > 0 {
		cmd.Printf("Fetches:   %d fetched, %d failed (%d attempted)\n",
			record.Stats.Fetched, record.Stats.Failed, record.Stats.Attempted)
	}
	if record.Error != "" {
		cmd.Printf("Error:     %s\n", record.Error)
	}
	return nil
}
