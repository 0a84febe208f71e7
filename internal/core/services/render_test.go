package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
)

// mockRasterizer implements driven.Rasterizer, capturing the container it
// was handed.
type mockRasterizer struct {
	container *html.Node
	opts      driven.RenderOptions
	calls     int
	output    []byte
	err       error
}

func (m *mockRasterizer) Render(_ context.Context, container *html.Node, opts driven.RenderOptions) ([]byte, error) {
	m.calls++
	m.container = container
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

const testView = `<html><body>
<main>
	<section data-page="references" class="shadow-lg">References</section>
	<section data-page="cover">Cover</section>
	<div data-page="employment-history">History</div>
</main>
</body></html>`

func parseView(t *testing.T, src string) *html.Node {
	return parseFragment(t, src)
}

// pageMarkers returns the data-page values of the container's direct page
// children, and the positions of page-break markers.
func containerChildren(container *html.Node) (pages []string, breaks int) {
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		if getAttr(child, driven.PageBreakAttr) != "" {
			breaks++
			continue
		}
		pages = append(pages, getAttr(child, domain.PageMarkerAttr))
	}
	return pages, breaks
}

// TestDocumentRenderer_PageOrder tests that pages are collected in fixed
// presentation order, not view order
func TestDocumentRenderer_PageOrder(t *testing.T) {
	engine := &mockRasterizer{output: []byte("%PDF")}
	renderer := NewDocumentRenderer(engine)

	out, err := renderer.Render(context.Background(), parseView(t, testView))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)

	pages, breaks := containerChildren(engine.container)
	assert.Equal(t, []string{"cover", "employment-history", "references"}, pages)
	// Breaks between consecutive pages only, never before the first.
	assert.Equal(t, 2, breaks)
}

// TestDocumentRenderer_NoPages tests the completeness floor: zero markers
// raise before the engine is invoked
func TestDocumentRenderer_NoPages(t *testing.T) {
	engine := &mockRasterizer{output: []byte("%PDF")}
	renderer := NewDocumentRenderer(engine)

	_, err := renderer.Render(context.Background(), parseView(t, `<html><body><p>no pages</p></body></html>`))
	assert.ErrorIs(t, err, domain.ErrNoReportPages)
	assert.Zero(t, engine.calls)
}

// TestDocumentRenderer_SinglePage tests one page produces no break markers
func TestDocumentRenderer_SinglePage(t *testing.T) {
	engine := &mockRasterizer{output: []byte("%PDF")}
	renderer := NewDocumentRenderer(engine)

	_, err := renderer.Render(context.Background(), parseView(t, `<html><body><div data-page="cover">c</div></body></html>`))
	require.NoError(t, err)

	pages, breaks := containerChildren(engine.container)
	assert.Equal(t, []string{"cover"}, pages)
	assert.Zero(t, breaks)
}

// TestDocumentRenderer_DoesNotMutateView tests that sanitisation happens
// on clones only
func TestDocumentRenderer_DoesNotMutateView(t *testing.T) {
	view := parseView(t, testView)
	renderer := NewDocumentRenderer(&mockRasterizer{output: []byte("%PDF")})

	_, err := renderer.Render(context.Background(), view)
	require.NoError(t, err)

	// The live view still carries the class the sanitiser strips.
	references := findPage(view, domain.PageReferences)
	require.NotNil(t, references)
	assert.Equal(t, "shadow-lg", getAttr(references, "class"))
}

// TestDocumentRenderer_SanitizesClones tests the engine receives
// sanitised copies
func TestDocumentRenderer_SanitizesClones(t *testing.T) {
	engine := &mockRasterizer{output: []byte("%PDF")}
	renderer := NewDocumentRenderer(engine)

	_, err := renderer.Render(context.Background(), parseView(t, testView))
	require.NoError(t, err)

	cloned := findPage(engine.container, domain.PageReferences)
	require.NotNil(t, cloned)
	assert.Equal(t, "", getAttr(cloned, "class"))
}

// TestDocumentRenderer_LayoutOptions tests the fixed layout settings
func TestDocumentRenderer_LayoutOptions(t *testing.T) {
	engine := &mockRasterizer{output: []byte("%PDF")}
	renderer := NewDocumentRenderer(engine)

	_, err := renderer.Render(context.Background(), parseView(t, testView))
	require.NoError(t, err)

	assert.Equal(t, "a4", engine.opts.PageFormat)
	assert.Equal(t, "portrait", engine.opts.Orientation)
	assert.Equal(t, [4]float64{10, 10, 10, 10}, engine.opts.MarginsMm)
	assert.InDelta(t, 0.95, engine.opts.ImageQuality, 0.001)
	assert.InDelta(t, 1.5, engine.opts.RasterScale, 0.001)
}

// TestDocumentRenderer_EngineFailure tests engine errors propagate as
// fatal render errors
func TestDocumentRenderer_EngineFailure(t *testing.T) {
	engine := &mockRasterizer{err: errors.New("canvas allocation failed")}
	renderer := NewDocumentRenderer(engine)

	_, err := renderer.Render(context.Background(), parseView(t, testView))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.Contains(t, err.Error(), "canvas allocation failed")
}

// TestDocumentRenderer_NilView tests input validation
func TestDocumentRenderer_NilView(t *testing.T) {
	renderer := NewDocumentRenderer(&mockRasterizer{})
	_, err := renderer.Render(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
