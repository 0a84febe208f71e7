package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/adapters/driving/tui"
	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

var (
	exportViewPath string
	exportModeFlag string
	exportProgress bool
)

var exportCmd = &cobra.Command{
	Use:   "export [report-file]",
	Short: "Export a compliance report",
	Long: `Exports a compliance report into deliverable artifacts.

The report file is the JSON compliance report as returned by the
platform API. The view file is the rendered report HTML the PDF is
generated from.

Modes:
  report   - PDF report only
  split    - PDF report plus a separate supporting documents archive
  package  - single archive containing the PDF and all supporting documents`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportViewPath, "view", "", "Path to the rendered report HTML view (required)")
	exportCmd.Flags().StringVarP(&exportModeFlag, "mode", "m", string(domain.ModePackage),
		"Export mode: report, split or package")
	exportCmd.Flags().BoolVar(&exportProgress, "progress", false, "Show an interactive progress dialog")
	_ = exportCmd.MarkFlagRequired("view")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exporter == nil {
		return errors.New("export service not configured")
	}

	mode := domain.ExportMode(exportModeFlag)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q (expected report, split or package)", exportModeFlag)
	}

	report, err := loadReport(args[0])
	if err != nil {
		return err
	}
	view, err := loadView(exportViewPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if urlDirectory != nil {
		hydrated, err := urlDirectory.HydrateReport(ctx, report)
		if err != nil {
			return fmt.Errorf("resolving document URLs: %w", err)
		}
		report = hydrated
	}

	var record *domain.ExportRecord
	if exportProgress {
		record, err = tui.RunExport(ctx, exporter, func(ctx context.Context) (*domain.ExportRecord, error) {
			return exporter.Export(ctx, report, view, mode)
		})
	} else {
		record, err = exporter.Export(ctx, report, view, mode)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printRecord(cmd, record)
	return nil
}

// loadReport reads and decodes the JSON compliance report.
func loadReport(path string) (*domain.ComplianceReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report file: %w", err)
	}
	defer f.Close()

	report, err := domain.DecodeReport(f)
	if err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return report, nil
}

// loadView reads and parses the rendered report HTML view.
func loadView(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening view file: %w", err)
	}
	defer f.Close()

	view, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing view %s: %w", path, err)
	}
	return view, nil
}

func printRecord(cmd *cobra.Command, record *domain.ExportRecord) {
	cmd.Printf("Export complete for %s.\n", record.EmployeeName)
	for _, name := range record.Artifacts {
		cmd.Printf("  %s\n", name)
	}
	if record.Stats.Attempted > 0 {
		cmd.Printf("Attachments: %d fetched, %d failed (%d attempted)\n",
			record.Stats.Fetched, record.Stats.Failed, record.Stats.Attempted)
	}
}
