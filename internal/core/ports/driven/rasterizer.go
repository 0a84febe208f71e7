package driven

import (
	"context"

	"golang.org/x/net/html"
)

// RenderOptions are the fixed layout settings handed to the engine.
type RenderOptions struct {
	// MarginsMm are the page margins in millimetres: top, right, bottom, left.
	MarginsMm [4]float64

	// PageFormat is the page size, e.g. "a4".
	PageFormat string

	// Orientation is "portrait" or "landscape".
	Orientation string

	// ImageQuality is the JPEG compression quality for rasterised images,
	// in (0, 1]. Engines that embed no images ignore it.
	ImageQuality float64

	// RasterScale is the rasterisation scale factor for sharpness.
	// Engines that embed no images ignore it.
	RasterScale float64
}

// DefaultRenderOptions returns the layout used for compliance reports:
// A4 portrait, 10mm margins, JPEG at 0.95 quality, 1.5x raster scale.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MarginsMm:    [4]float64{10, 10, 10, 10},
		PageFormat:   "a4",
		Orientation:  "portrait",
		ImageQuality: 0.95,
		RasterScale:  1.5,
	}
}

// Rasterizer converts a sanitised visual tree into a single paginated
// binary document. The container is the offscreen concatenation of report
// pages with explicit page-break markers between them.
//
// Engine failure is fatal to the export and must be returned verbatim;
// this path is never best-effort.
type Rasterizer interface {
	Render(ctx context.Context, container *html.Node, opts RenderOptions) ([]byte, error)
}

// PageBreakAttr marks a node the rasterizer must treat as a page break.
// The renderer inserts such markers between consecutive pages, never
// before the first.
const PageBreakAttr = "data-page-break"
