package tikz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

const header = `% Auto-generated by feyndraw
% Editable subset: \fill / \draw / \node
% Requires \usetikzlibrary{decorations.pathmorphing,decorations.markings,arrows.meta}
\begin{tikzpicture}
`

const footer = "\\end{tikzpicture}\n"

var strokeAttrs = map[stroke.Kind]string{
	stroke.Dashed: "dashed",
	stroke.Dotted: "dotted",
	stroke.Wavy:   "decorate, decoration={snake, segment length=10pt, amplitude=2pt}",
	stroke.Spring: "decorate, decoration={coil, segment length=5pt, amplitude=3pt}",
}

var arrowAttrs = map[stroke.Arrow]string{
	stroke.ArrowForward:     "-{Stealth}",
	stroke.ArrowBackward:    "{Stealth}-",
	stroke.ArrowBoth:        "{Stealth}-{Stealth}",
	stroke.ArrowMidForward:  `postaction={decorate, decoration={markings, mark=at position 0.5 with {\arrow{Stealth}}}}`,
	stroke.ArrowMidBackward: `postaction={decorate, decoration={markings, mark=at position 0.5 with {\arrow{Stealth}[reversed]}}}`,
	stroke.ArrowMidCross: `postaction={decorate, decoration={markings, mark=at position 0.5 with ` +
		`{\pgfpathmoveto{\pgfpoint{-2pt}{-2pt}}\pgfpathlineto{\pgfpoint{2pt}{2pt}}` +
		`\pgfpathmoveto{\pgfpoint{-2pt}{2pt}}\pgfpathlineto{\pgfpoint{2pt}{-2pt}}\pgfusepath{stroke}}}}`,
}

// Serialize renders d as a complete tikzpicture document. Elements are
// grouped by kind (points, edges, ellipses, labels) and ordered by id, so the
// output is canonical. Bound labels are written at their resolved position.
//
// d must be valid; Serialize does not check it.
func Serialize(d *diagram.Diagram) string {
	var b strings.Builder
	b.WriteString(header)

	for _, p := range d.Points() {
		r := max(minPointRadius, p.Radius/Scale)
		fmt.Fprintf(&b, "  \\fill %s circle (%s);\n", formatCoord(p.Pos), formatNum(r))
	}

	for _, e := range d.Edges() {
		b.WriteString("  ")
		b.WriteString(edgeLine(e))
		b.WriteByte('\n')
	}

	for _, e := range d.Ellipses() {
		attrs := "fill=gray!20, draw=" + colorAttr(e.Color) + ", line width=" + widthAttr(e.Width)
		fmt.Fprintf(&b, "  \\draw[%s] %s ellipse (%s and %s);\n",
			attrs, formatCoord(e.Center), formatNum(e.RX/Scale), formatNum(e.RY/Scale))
	}

	for _, l := range d.Labels() {
		pos := d.ResolveLabelPosition(l)
		fmt.Fprintf(&b, "  \\node at %s {$%s$};\n", formatCoord(pos), stripMath(l.Text))
	}

	b.WriteString(footer)
	return b.String()
}

func edgeLine(e *diagram.Edge) string {
	parts := []string{
		"draw=" + colorAttr(e.Style.Color),
		"line width=" + widthAttr(e.Style.Width),
	}
	if s, ok := strokeAttrs[e.Style.Stroke]; ok {
		parts = append(parts, s)
	}
	if s, ok := arrowAttrs[e.Style.Arrow]; ok {
		parts = append(parts, s)
	}

	path := formatCoord(e.Start) + " -- " + formatCoord(e.End)
	if e.Kind == diagram.Curve && e.Control != nil {
		path = formatCoord(e.Start) + " .. controls " + formatCoord(*e.Control) + " .. " + formatCoord(e.End)
	}

	line := `\draw[` + strings.Join(parts, ", ") + "] " + path + ";"
	if e.Style.Arrow.IsMid() {
		line += " % " + arrowCommentKey + " " + e.Style.Arrow.String()
	}
	return line
}

func colorAttr(c diagram.Color) string {
	return fmt.Sprintf("{rgb,255:red,%d;green,%d;blue,%d}", c.R, c.G, c.B)
}

func widthAttr(w float64) string {
	return formatNum(max(minLineWidth, w/2)) + "pt"
}

// Write serializes d to w.
func Write(d *diagram.Diagram, w io.Writer) error {
	if _, err := io.WriteString(w, Serialize(d)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteFile writes d to a file at path.
func WriteFile(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
