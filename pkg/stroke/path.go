package stroke

import "github.com/matzehuels/feyndraw/pkg/geom"

// Path is the logical geometry of an edge. Control is nil for straight
// edges; for curves it is used as both inner control points of a cubic.
type Path struct {
	Start   geom.Point
	End     geom.Point
	Control *geom.Point
}

// Line returns a straight path from a to b.
func Line(a, b geom.Point) Path { return Path{Start: a, End: b} }

// Curve returns a curved path from a to b bent toward c.
func Curve(a, c, b geom.Point) Path { return Path{Start: a, End: b, Control: &c} }

// IsCurve reports whether the path carries a control point.
func (p Path) IsCurve() bool { return p.Control != nil }

// Chord returns the straight displacement from start to end.
func (p Path) Chord() geom.Point { return p.End.Sub(p.Start) }

// PointAt returns the point at parameter t. PointAt(0) and PointAt(1) return
// the endpoints exactly.
func (p Path) PointAt(t float64) geom.Point {
	switch {
	case t == 0:
		return p.Start
	case t == 1:
		return p.End
	case p.Control != nil:
		return geom.EvaluateCubic(p.Start, *p.Control, *p.Control, p.End, t)
	default:
		return p.Start.Lerp(p.End, t)
	}
}

// TangentAt returns the unit tangent at t. A degenerate derivative (control
// coincident with an endpoint) falls back to the chord direction, and a
// zero-length chord falls back to +x.
func (p Path) TangentAt(t float64) geom.Point {
	if p.Control != nil {
		d := geom.TangentCubic(p.Start, *p.Control, *p.Control, p.End, t)
		if u, ok := d.Unit(); ok {
			return u
		}
	}
	if u, ok := p.Chord().Unit(); ok {
		return u
	}
	return geom.Pt(1, 0)
}

// AngleAt returns the tangent direction at t in radians.
func (p Path) AngleAt(t float64) float64 { return p.TangentAt(t).Angle() }

