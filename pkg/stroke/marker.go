package stroke

import (
	"math"

	"github.com/matzehuels/feyndraw/pkg/geom"
)

// MarkerKind distinguishes filled arrowheads from crossing ticks.
type MarkerKind int

const (
	MarkerArrowhead MarkerKind = iota
	MarkerCross
)

func (k MarkerKind) String() string {
	if k == MarkerCross {
		return "cross"
	}
	return "arrowhead"
}

// Marker is the geometry of one marker placed on an edge.
type Marker struct {
	Kind   MarkerKind
	Anchor geom.Point // arrowhead tip, or cross center
	Angle  float64    // direction the marker points, radians

	// Polygon holds the arrowhead triangle: tip, left base, right base.
	Polygon []geom.Point
	// Segments holds the two tick segments of a cross.
	Segments [][2]geom.Point
}

// Arrowhead returns a solid triangle with its tip at tip, pointing along
// angle. The base is set back 1.1·size and is 0.9·size wide.
func Arrowhead(tip geom.Point, angle, size float64) Marker {
	base := tip.Sub(geom.Polar(angle).Scale(size * 1.1))
	half := size * 0.45
	left := base.Add(geom.Polar(angle + math.Pi/2).Scale(half))
	right := base.Add(geom.Polar(angle - math.Pi/2).Scale(half))
	return Marker{
		Kind:    MarkerArrowhead,
		Anchor:  tip,
		Angle:   angle,
		Polygon: []geom.Point{tip, left, right},
	}
}

// Cross returns two ticks centered at c, rotated ±45° from angle, each
// extending half on both sides of c.
func Cross(c geom.Point, angle, half float64) Marker {
	d1 := geom.Polar(angle + math.Pi/4).Scale(half)
	d2 := geom.Polar(angle - math.Pi/4).Scale(half)
	return Marker{
		Kind:   MarkerCross,
		Anchor: c,
		Angle:  angle,
		Segments: [][2]geom.Point{
			{c.Sub(d1), c.Add(d1)},
			{c.Sub(d2), c.Add(d2)},
		},
	}
}

// Markers returns the markers for arrow style a on path p. ArrowNone yields
// nil; ArrowBoth yields two arrowheads; every other style yields one marker.
func (g Generator) Markers(p Path, a Arrow) []Marker {
	head := func(t float64, reversed bool) Marker {
		angle := p.AngleAt(t)
		if reversed {
			angle += math.Pi
		}
		return Arrowhead(p.PointAt(t), angle, g.ArrowSize)
	}

	switch a {
	case ArrowForward:
		return []Marker{head(1, false)}
	case ArrowBackward:
		return []Marker{head(0, true)}
	case ArrowBoth:
		return []Marker{head(1, false), head(0, true)}
	case ArrowMidForward:
		return []Marker{head(0.5, false)}
	case ArrowMidBackward:
		return []Marker{head(0.5, true)}
	case ArrowMidCross:
		return []Marker{Cross(p.PointAt(0.5), p.AngleAt(0.5), g.CrossSize)}
	}
	return nil
}
