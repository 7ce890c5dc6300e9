package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

// RenderSVG renders the diagram as a standalone SVG document. The viewBox is
// the scene bounds, so editor coordinates are used unchanged.
func RenderSVG(d *diagram.Diagram, opts ...Option) []byte {
	o := newOptions(opts...)
	return writeSVG(buildScene(d, o), o)
}

func writeSVG(s Scene, o options) []byte {
	w, h := s.Size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		s.Bounds.Min.X, s.Bounds.Min.Y, w, h, w, h)

	if o.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			s.Bounds.Min.X, s.Bounds.Min.Y, w, h, escapeXML(o.background))
	}

	for _, e := range s.Ellipses {
		fmt.Fprintf(&buf, `  <ellipse id="ellipse-%d" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
			e.ID, e.Center.X, e.Center.Y, e.RX, e.RY, EllipseFill.Hex(), e.Color.Hex(), e.Width)
	}

	for _, st := range s.Strokes {
		fmt.Fprintf(&buf, `  <polyline id="edge-%d" class="%s" points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"%s/>`+"\n",
			st.EdgeID, st.Kind, svgPoints(st.Points), st.Color.Hex(), st.Width, dashAttr(st.Dash))
	}

	for _, m := range s.Marks {
		if m.Polygon != nil {
			fmt.Fprintf(&buf, `  <polygon class="marker" data-edge="%d" points="%s" fill="%s"/>`+"\n",
				m.EdgeID, svgPoints(m.Polygon), m.Color.Hex())
		}
		for _, seg := range m.Segments {
			fmt.Fprintf(&buf, `  <line class="marker" data-edge="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
				m.EdgeID, seg[0].X, seg[0].Y, seg[1].X, seg[1].Y, m.Color.Hex(), m.Width)
		}
	}

	for _, p := range s.Dots {
		fmt.Fprintf(&buf, `  <circle id="point-%d" cx="%.2f" cy="%.2f" r="%.2f" fill="#000000"/>`+"\n",
			p.ID, p.Center.X, p.Center.Y, p.Radius)
	}

	for _, t := range s.Texts {
		fmt.Fprintf(&buf, `  <text id="label-%d" x="%.2f" y="%.2f" font-family="serif" font-size="%.0f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			t.ID, t.Pos.X, t.Pos.Y, o.fontSize, escapeXML(t.Text))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func svgPoints(pts []geom.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.X, p.Y)
	}
	return sb.String()
}

func dashAttr(dash []float64) string {
	if len(dash) == 0 {
		return ""
	}
	parts := make([]string, len(dash))
	for i, v := range dash {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
