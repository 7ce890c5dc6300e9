package render

import (
	"unicode/utf8"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// EllipseFill is the interior color of ellipses (gray!20 in the text format).
var EllipseFill = diagram.Color{R: 0xe5, G: 0xe5, B: 0xe5}

// charWidth approximates the advance of one glyph as a fraction of the font size.
const charWidth = 0.6

// Scene is a diagram flattened into drawable primitives, in editor space.
type Scene struct {
	Bounds   geom.Bounds
	Dots     []Dot
	Strokes  []Stroke
	Marks    []Mark
	Ellipses []Oval
	Texts    []Text
}

// Dot is a filled vertex.
type Dot struct {
	ID     diagram.ID
	Center geom.Point
	Radius float64
}

// Stroke is an edge flattened into a polyline.
type Stroke struct {
	EdgeID diagram.ID
	Kind   stroke.Kind
	Points []geom.Point
	Color  diagram.Color
	Width  float64
	Dash   []float64
}

// Mark is an arrowhead or cross placed on an edge.
type Mark struct {
	EdgeID diagram.ID
	stroke.Marker
	Color diagram.Color
	Width float64
}

// Oval is a filled, outlined ellipse.
type Oval struct {
	ID     diagram.ID
	Center geom.Point
	RX, RY float64
	Color  diagram.Color
	Width  float64
}

// Text is a label drawn centered on Pos.
type Text struct {
	ID   diagram.ID
	Pos  geom.Point
	Text string
}

// BuildScene flattens d using the given options. Bounds include padding; an
// empty diagram yields bounds around the origin.
func BuildScene(d *diagram.Diagram, opts ...Option) Scene {
	return buildScene(d, newOptions(opts...))
}

func buildScene(d *diagram.Diagram, o options) Scene {
	var s Scene
	b := geom.EmptyBounds()

	for _, e := range d.Ellipses() {
		s.Ellipses = append(s.Ellipses, Oval{ID: e.ID, Center: e.Center, RX: e.RX, RY: e.RY, Color: e.Color, Width: e.Width})
		half := e.Width / 2
		b = b.Extend(geom.Pt(e.Center.X-e.RX-half, e.Center.Y-e.RY-half))
		b = b.Extend(geom.Pt(e.Center.X+e.RX+half, e.Center.Y+e.RY+half))
	}

	for _, e := range d.Edges() {
		path := e.Path()
		pts := o.gen.Polyline(path, e.Style.Stroke)
		s.Strokes = append(s.Strokes, Stroke{
			EdgeID: e.ID,
			Kind:   e.Style.Stroke,
			Points: pts,
			Color:  e.Style.Color,
			Width:  e.Style.Width,
			Dash:   e.Style.Stroke.DashArray(),
		})
		for _, p := range pts {
			b = b.Extend(p)
		}
		for _, m := range o.gen.Markers(path, e.Style.Arrow) {
			s.Marks = append(s.Marks, Mark{EdgeID: e.ID, Marker: m, Color: e.Style.Color, Width: e.Style.Width})
			for _, p := range m.Polygon {
				b = b.Extend(p)
			}
			for _, seg := range m.Segments {
				b = b.Extend(seg[0]).Extend(seg[1])
			}
		}
	}

	for _, p := range d.Points() {
		s.Dots = append(s.Dots, Dot{ID: p.ID, Center: p.Pos, Radius: p.Radius})
		b = b.Extend(geom.Pt(p.Pos.X-p.Radius, p.Pos.Y-p.Radius))
		b = b.Extend(geom.Pt(p.Pos.X+p.Radius, p.Pos.Y+p.Radius))
	}

	for _, l := range d.Labels() {
		pos := d.ResolveLabelPosition(l)
		s.Texts = append(s.Texts, Text{ID: l.ID, Pos: pos, Text: l.Text})
		hw := float64(utf8.RuneCountInString(l.Text)) * o.fontSize * charWidth / 2
		hh := o.fontSize / 2
		b = b.Extend(geom.Pt(pos.X-hw, pos.Y-hh))
		b = b.Extend(geom.Pt(pos.X+hw, pos.Y+hh))
	}

	if b.IsEmpty() {
		b = geom.Bounds{}
	}
	s.Bounds = b.Pad(o.padding)
	return s
}

// Size returns the canvas width and height, at least one unit each.
func (s Scene) Size() (w, h float64) {
	return max(1, s.Bounds.Width()), max(1, s.Bounds.Height())
}
