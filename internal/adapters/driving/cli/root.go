// Package cli implements the command-line driving adapter.
//
// Commands are thin: they parse input, call driving ports, and format
// output. Services are injected through SetServices before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driving"
	"github.com/fernlea-labs/attest-cli/internal/core/services"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services. Nil until SetServices is called; commands guard
// against partial wiring.
var (
	exporter     driving.Exporter
	urlDirectory *services.URLDirectory
	exportStore  driven.ExportStore
	configStore  driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "attest",
	Short: "Export employee compliance reports",
	Long: `Attest exports employee compliance reports from the compliance
platform into deliverable artifacts: a paginated PDF report, a supporting
documents archive, or a single package containing both.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Services bundles the driving ports and supporting services the
// commands depend on.
type Services struct {
	Exporter     driving.Exporter
	URLDirectory *services.URLDirectory
	ExportStore  driven.ExportStore
	ConfigStore  driven.ConfigStore
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	exporter = s.Exporter
	urlDirectory = s.URLDirectory
	exportStore = s.ExportStore
	configStore = s.ConfigStore
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
