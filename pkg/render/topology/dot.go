package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/render"
	"github.com/matzehuels/feyndraw/pkg/stroke"
	"github.com/matzehuels/feyndraw/pkg/tikz"
)

var kindAttrs = map[stroke.Kind]string{
	stroke.Solid:  `style=solid`,
	stroke.Dashed: `style=dashed`,
	stroke.Dotted: `style=dotted`,
	stroke.Wavy:   `style=tapered, penwidth=3`,
	stroke.Spring: `style=bold`,
}

var arrowAttrs = map[stroke.Arrow]string{
	stroke.ArrowNone:        `dir=none`,
	stroke.ArrowForward:     `dir=forward`,
	stroke.ArrowBackward:    `dir=back`,
	stroke.ArrowBoth:        `dir=both`,
	stroke.ArrowMidForward:  `dir=none, label="▶"`,
	stroke.ArrowMidBackward: `dir=none, label="◀"`,
	stroke.ArrowMidCross:    `dir=none, label="✕"`,
}

// ToDOT converts a diagram to Graphviz DOT with vertices pinned at their
// drawing position. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(d *diagram.Diagram) string {
	return Build(d).DOT()
}

// DOT writes the graph as an undirected Graphviz graph.
func (g Graph) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.06];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices {
		attrs := []string{pinned(v.Pos)}
		if v.Dot {
			attrs = append(attrs, "width=0.12")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", v.Name, strings.Join(attrs, ", "))
	}
	for _, n := range g.Notes {
		fmt.Fprintf(&buf, "  \"label%d\" [shape=plaintext, label=%q, %s];\n", n.ID, n.Text, pinned(n.Pos))
	}

	buf.WriteString("\n")
	for _, p := range g.Propagators {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", p.From, p.To, strings.Join(propagatorAttrs(p), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pinned fixes a node at its text-unit position, with y pointing up as
// Graphviz expects.
func pinned(pos geom.Point) string {
	p := tikz.ToTextUnits(pos)
	return fmt.Sprintf(`pos="%.2f,%.2f!"`, p.X, p.Y)
}

func propagatorAttrs(p Propagator) []string {
	attrs := []string{
		fmt.Sprintf("id=\"edge-%d\"", p.Edge),
		kindAttrs[p.Kind],
		arrowAttrs[p.Arrow],
		fmt.Sprintf("color=%q", p.Color.Hex()),
	}
	if text, ok := p.Labels[diagram.AnchorMid]; ok && !p.Arrow.IsMid() {
		attrs = append(attrs, fmt.Sprintf("label=%q", text))
	} else if ok {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", text))
	}
	if text, ok := p.Labels[diagram.AnchorStart]; ok {
		attrs = append(attrs, fmt.Sprintf("taillabel=%q", text))
	}
	if text, ok := p.Labels[diagram.AnchorEnd]; ok {
		attrs = append(attrs, fmt.Sprintf("headlabel=%q", text))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops Graphviz's pt-based width/height so the SVG scales
// like the scene renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
