// Package fpdf implements the Rasterizer port on the go-pdf/fpdf engine.
//
// The engine walks the sanitised visual tree block by block, laying text
// content out onto paginated pages. Remote images are not embedded; an
// image renders as its alternative text. Page-break markers inserted by
// the renderer start a new page.
package fpdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
)

const (
	bodyFontSize = 11.0
	lineHeight   = 5.5
	bulletIndent = 5.0
)

// headingSizes maps heading levels to font sizes in points.
var headingSizes = map[string]float64{
	"h1": 18, "h2": 15, "h3": 13, "h4": 12, "h5": 11, "h6": 11,
}

var _ driven.Rasterizer = (*Engine)(nil)

// Engine renders a visual tree to a PDF document.
//
// Layout is text-block only: images are never embedded (an img renders
// as its alternative text), so the ImageQuality and RasterScale options
// have no effect on this engine.
type Engine struct{}

// New creates a PDF rasterizer.
func New() *Engine {
	return &Engine{}
}

// Render lays the container's content out as a paginated PDF. Engine
// failure is fatal and returned verbatim; there is no partial output.
func (e *Engine) Render(ctx context.Context, container *html.Node, opts driven.RenderOptions) ([]byte, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: nil container", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := fpdf.New(orientationCode(opts.Orientation), "mm", strings.ToUpper(opts.PageFormat), "")
	doc.SetMargins(opts.MarginsMm[3], opts.MarginsMm[0], opts.MarginsMm[1])
	doc.SetAutoPageBreak(true, opts.MarginsMm[2])
	doc.SetFont("Arial", "", bodyFontSize)
	doc.AddPage()

	walkBlocks(doc, container)

	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func orientationCode(orientation string) string {
	if strings.EqualFold(orientation, "landscape") {
		return "L"
	}
	return "P"
}

// walkBlocks renders the block-level children of n in document order.
func walkBlocks(doc *fpdf.Fpdf, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(doc, child)
	}
}

func renderNode(doc *fpdf.Fpdf, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := collapseSpace(n.Data); text != "" {
			writeParagraph(doc, text, "", bodyFontSize)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if hasAttr(n, driven.PageBreakAttr) {
		doc.AddPage()
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		writeParagraph(doc, textContent(n), "B", headingSizes[n.Data])
		doc.Ln(2)
	case "p":
		writeParagraph(doc, textContent(n), "", bodyFontSize)
		doc.Ln(1.5)
	case "ul", "ol":
		renderList(doc, n)
		doc.Ln(1.5)
	case "table":
		renderTable(doc, n)
		doc.Ln(1.5)
	case "img":
		if alt := collapseSpace(getAttr(n, "alt")); alt != "" {
			writeParagraph(doc, "["+alt+"]", "I", bodyFontSize)
		}
	case "br":
		doc.Ln(lineHeight)
	case "hr":
		x, y := doc.GetXY()
		pageWidth, _ := doc.GetPageSize()
		_, _, right, _ := doc.GetMargins()
		doc.Line(x, y, pageWidth-right, y)
		doc.Ln(2)
	case "script", "style", "head":
		// Non-visual subtrees carry no report content.
	default:
		if hasBlockChildren(n) {
			walkBlocks(doc, n)
			return
		}
		if text := textContent(n); text != "" {
			writeParagraph(doc, text, "", bodyFontSize)
		}
	}
}

func renderList(doc *fpdf.Fpdf, list *html.Node) {
	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.Data != "li" {
			continue
		}
		text := textContent(item)
		if text == "" {
			continue
		}
		left, _, _, _ := doc.GetMargins()
		doc.SetLeftMargin(left + bulletIndent)
		doc.SetX(left + bulletIndent)
		writeParagraph(doc, "- "+text, "", bodyFontSize)
		doc.SetLeftMargin(left)
	}
}

// renderTable lays rows out with equal column widths. Header cells are
// bold; column count follows the widest row.
func renderTable(doc *fpdf.Fpdf, table *html.Node) {
	rows := tableRows(table)
	if len(rows) == 0 {
		return
	}
	columns := 0
	for _, row := range rows {
		if len(row.cells) > columns {
			columns = len(row.cells)
		}
	}
	if columns == 0 {
		return
	}

	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	cellWidth := (pageWidth - left - right) / float64(columns)

	for _, row := range rows {
		style := ""
		if row.header {
			style = "B"
		}
		doc.SetFont("Arial", style, bodyFontSize)
		for i := 0; i < columns; i++ {
			text := ""
			if i < len(row.cells) {
				text = row.cells[i]
			}
			doc.CellFormat(cellWidth, lineHeight+1, text, "1", 0, "L", false, 0, "")
		}
		doc.Ln(lineHeight + 1)
	}
	doc.SetFont("Arial", "", bodyFontSize)
}

type tableRow struct {
	cells  []string
	header bool
}

func tableRows(table *html.Node) []tableRow {
	var rows []tableRow
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.Data == "tr" {
				row := tableRow{}
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode {
						continue
					}
					if cell.Data == "td" || cell.Data == "th" {
						row.cells = append(row.cells, textContent(cell))
						if cell.Data == "th" {
							row.header = true
						}
					}
				}
				rows = append(rows, row)
				continue
			}
			walk(child)
		}
	}
	walk(table)
	return rows
}

func writeParagraph(doc *fpdf.Fpdf, text, style string, size float64) {
	doc.SetFont("Arial", style, size)
	doc.MultiCell(0, lineHeight, text, "", "L", false)
	doc.SetFont("Arial", "", bodyFontSize)
}

var blockTags = map[string]bool{
	"div": true, "section": true, "article": true, "main": true,
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "table": true,
	"header": true, "footer": true, "hr": true,
}

func hasBlockChildren(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && blockTags[child.Data] {
			return true
		}
	}
	return false
}

// textContent collects the visible text of a subtree with whitespace
// collapsed, the way it would read on screen.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return collapseSpace(sb.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}
