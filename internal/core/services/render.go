package services

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// DocumentRenderer turns the live rendered report view into one paginated
// document. It locates report pages by their stable markers, clones and
// sanitises them, concatenates the copies with explicit page breaks, and
// drives the rasterize-to-document engine.
//
// Unlike archive building, document rendering is not best-effort: an
// engine failure aborts the whole export.
type DocumentRenderer struct {
	rasterizer driven.Rasterizer
	sanitize   SanitizeConfig
	opts       driven.RenderOptions
}

// NewDocumentRenderer creates a renderer with the default denylist and
// layout settings.
func NewDocumentRenderer(rasterizer driven.Rasterizer) *DocumentRenderer {
	return &DocumentRenderer{
		rasterizer: rasterizer,
		sanitize:   DefaultSanitizeConfig(),
		opts:       driven.DefaultRenderOptions(),
	}
}

// SetRenderOptions overrides the layout settings handed to the engine.
// Call before the first Render; the renderer does not lock options.
func (r *DocumentRenderer) SetRenderOptions(opts driven.RenderOptions) {
	r.opts = opts
}

// Render produces the report document from the live view. Pages absent
// from the view are skipped; zero located pages is an error, raised
// before the engine is invoked.
func (r *DocumentRenderer) Render(ctx context.Context, view *html.Node) ([]byte, error) {
	if view == nil {
		return nil, domain.ErrInvalidInput
	}

	pages := collectPages(view)
	if len(pages) == 0 {
		return nil, domain.ErrNoReportPages
	}
	logger.Debug("Located %d report pages", len(pages))

	container := newContainer()
	for i, page := range pages {
		clone := cloneSubtree(page)
		Sanitize(clone, r.sanitize)

		if i > 0 {
			container.AppendChild(pageBreak())
		}
		container.AppendChild(clone)
	}

	doc, err := r.rasterizer.Render(ctx, container, r.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}

	logger.Info("Rendered document: %d bytes", len(doc))
	return doc, nil
}

// collectPages returns the page root elements present in the view, in
// fixed presentation order regardless of their order in the tree.
func collectPages(view *html.Node) []*html.Node {
	var pages []*html.Node
	for _, name := range domain.PageOrder {
		if page := findPage(view, name); page != nil {
			pages = append(pages, page)
		} else {
			logger.Debug("Page %q not present in view, skipping", name)
		}
	}
	return pages
}

// findPage locates the first element whose page marker equals name.
func findPage(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, domain.PageMarkerAttr) == name {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findPage(child, name); found != nil {
			return found
		}
	}
	return nil
}

// cloneSubtree deep-copies a node and its descendants. The copy has no
// parent or sibling links, so the live view is never touched.
func cloneSubtree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Attr != nil {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		clone.AppendChild(cloneSubtree(child))
	}
	return clone
}

// newContainer creates the offscreen container the sanitised pages are
// concatenated into, with the base typography the engine expects.
func newContainer() *html.Node {
	container := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	}
	setAttr(container, "style",
		"font-family: Arial, sans-serif; font-size: 12px; line-height: 1.4; color: #000000")
	return container
}

// pageBreak creates the explicit break marker inserted between pages.
func pageBreak() *html.Node {
	brk := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	}
	setAttr(brk, driven.PageBreakAttr, "always")
	setAttr(brk, "style", "page-break-before: always")
	return brk
}
