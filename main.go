// Command attest exports employee compliance reports into deliverable
// artifacts: a paginated PDF report, a supporting documents archive, or
// a single package containing both.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/blobsink"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/config/file"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/docurls"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/fetch"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/rasterizer/fpdf"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/storage/memory"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/storage/sqlite"
	"github.com/fernlea-labs/attest-cli/internal/adapters/driving/cli"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/core/services"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "attest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	fetcher := fetch.New(fetchOptions(cfg)...)

	var resolver driven.DocumentURLResolver
	if base := cfg.GetString("export.api_base"); base != "" {
		resolver = docurls.NewHTTPResolver(base)
	}
	urls := services.NewURLDirectory(resolver)

	renderer := services.NewDocumentRenderer(fpdf.New())
	renderer.SetRenderOptions(renderOptions(cfg))

	archive := services.NewArchiveBuilder(fetcher)

	outputDir := cfg.GetString("export.output_dir")
	if outputDir == "" {
		outputDir = "exports"
	}
	sink := blobsink.NewFilesystem(outputDir)

	exportStore, closeStore := openHistory(cfg)
	if closeStore != nil {
		defer closeStore()
	}

	exportService := services.NewExportService(renderer, archive, sink, exportStore)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Exporter:     exportService,
		URLDirectory: urls,
		ExportStore:  exportStore,
		ConfigStore:  cfg,
	})

	return cli.Execute()
}

// fetchOptions maps fetch policy configuration onto fetcher options.
func fetchOptions(cfg driven.ConfigStore) []fetch.Option {
	var opts []fetch.Option
	if n := cfg.GetInt("fetch.max_attempts"); n > 0 {
		opts = append(opts, fetch.WithMaxAttempts(n))
	}
	if d := cfg.GetInt("fetch.base_delay_seconds"); d > 0 {
		opts = append(opts, fetch.WithBaseDelay(time.Duration(d)*time.Second))
	}
	if r := cfg.GetFloat("fetch.rate_limit"); r > 0 {
		opts = append(opts, fetch.WithRateLimit(r))
	}
	return opts
}

// renderOptions overlays configured layout settings on the defaults.
func renderOptions(cfg driven.ConfigStore) driven.RenderOptions {
	opts := driven.DefaultRenderOptions()
	if v := cfg.GetString("render.page_format"); v != "" {
		opts.PageFormat = v
	}
	if v := cfg.GetString("render.orientation"); v != "" {
		opts.Orientation = v
	}
	if v := cfg.GetFloat("render.margin_mm"); v > 0 {
		opts.MarginsMm = [4]float64{v, v, v, v}
	}
	if v := cfg.GetFloat("render.image_quality"); v > 0 {
		opts.ImageQuality = v
	}
	if v := cfg.GetFloat("render.raster_scale"); v > 0 {
		opts.RasterScale = v
	}
	return opts
}

// openHistory opens the export history database. History is on by
// default and can be disabled via history.enabled; a failure to open
// degrades to an in-memory store for the run rather than aborting.
func openHistory(cfg driven.ConfigStore) (driven.ExportStore, func() error) {
	if v, ok := cfg.Get("history.enabled"); ok {
		if enabled, isBool := v.(bool); isBool && !enabled {
			return nil, nil
		}
	}

	store, err := sqlite.NewStore(cfg.GetString("history.data_dir"))
	if err != nil {
		logger.Warn("Export history will not persist beyond this run: %v", err)
		return memory.NewExportStore(), nil
	}
	return store.ExportStore(), store.Close
}
