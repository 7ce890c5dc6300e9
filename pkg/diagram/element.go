package diagram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// ID identifies an element. Zero is never assigned.
type ID uint64

// Kind distinguishes the four element kinds.
type Kind int

const (
	KindPoint Kind = iota
	KindEdge
	KindEllipse
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindEdge:
		return "edge"
	case KindEllipse:
		return "ellipse"
	case KindLabel:
		return "label"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Element is implemented by *Point, *Edge, *Ellipse and *Label.
type Element interface {
	ElementID() ID
	ElementKind() Kind
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Black is the default stroke color.
var Black = Color{}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses #rrggbb (the leading # is optional).
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// DefaultPointRadius is the radius given to points created without one.
const DefaultPointRadius = 3.0

// Point is a filled vertex dot.
type Point struct {
	ID     ID
	Pos    geom.Point
	Radius float64
}

func (p *Point) ElementID() ID     { return p.ID }
func (p *Point) ElementKind() Kind { return KindPoint }

// EdgeKind is the shape of an edge.
type EdgeKind int

const (
	Straight EdgeKind = iota
	Curve
)

func (k EdgeKind) String() string {
	if k == Curve {
		return "curve"
	}
	return "straight"
}

// Style is the visual style of an edge.
type Style struct {
	Stroke stroke.Kind
	Color  Color
	Width  float64
	Arrow  stroke.Arrow
}

// DefaultStyle returns a solid black edge of width 2 without arrows.
func DefaultStyle() Style {
	return Style{Stroke: stroke.Solid, Color: Black, Width: 2, Arrow: stroke.ArrowNone}
}

// Edge is a straight or curved connector. Control is non-nil iff Kind is
// Curve.
type Edge struct {
	ID      ID
	Kind    EdgeKind
	Start   geom.Point
	End     geom.Point
	Control *geom.Point
	Style   Style
}

func (e *Edge) ElementID() ID     { return e.ID }
func (e *Edge) ElementKind() Kind { return KindEdge }

// Path returns the edge geometry for the stroke generators.
func (e *Edge) Path() stroke.Path {
	if e.Kind == Curve && e.Control != nil {
		return stroke.Curve(e.Start, *e.Control, e.End)
	}
	return stroke.Line(e.Start, e.End)
}

// MinEllipseRadius is the smallest allowed ellipse radius in editor pixels.
const MinEllipseRadius = 1.0

// Ellipse is an outlined, lightly filled blob.
type Ellipse struct {
	ID     ID
	Center geom.Point
	RX, RY float64
	Color  Color
	Width  float64
}

func (e *Ellipse) ElementID() ID     { return e.ID }
func (e *Ellipse) ElementKind() Kind { return KindEllipse }

// Anchor names a parametric position on an edge.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMid
	AnchorEnd
)

// T returns the path parameter of the anchor: 0, 0.5 or 1.
func (a Anchor) T() float64 {
	switch a {
	case AnchorMid:
		return 0.5
	case AnchorEnd:
		return 1
	}
	return 0
}

func (a Anchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorMid:
		return "mid"
	case AnchorEnd:
		return "end"
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor returns the anchor with the given name.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "start":
		return AnchorStart, nil
	case "mid":
		return AnchorMid, nil
	case "end":
		return AnchorEnd, nil
	}
	return AnchorStart, fmt.Errorf("unknown anchor %q", s)
}

func (a Anchor) valid() bool { return a >= AnchorStart && a <= AnchorEnd }

// Binding ties a label to an anchor of a live edge.
type Binding struct {
	Edge   ID
	Anchor Anchor
	Offset geom.Point
}

// Label is a piece of raw math markup. When Binding is set, Pos holds the
// last resolved position and the authoritative position is derived from the
// bound edge.
type Label struct {
	ID      ID
	Pos     geom.Point
	Text    string
	Binding *Binding
}

func (l *Label) ElementID() ID     { return l.ID }
func (l *Label) ElementKind() Kind { return KindLabel }

// IsBound reports whether the label follows an edge.
func (l *Label) IsBound() bool { return l.Binding != nil }
