package render

import "github.com/matzehuels/feyndraw/pkg/diagram"

// RenderPDF renders the diagram as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(d *diagram.Diagram, opts ...Option) ([]byte, error) {
	return ToPDF(RenderSVG(d, opts...))
}
