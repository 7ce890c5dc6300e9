package geom

import "math"

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// Point is a position or a displacement in editor space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return q.Sub(p).Len() }
func (p Point) Angle() float64        { return math.Atan2(p.Y, p.X) }

// Lerp interpolates linearly from p (t=0) to q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Perp rotates the vector by +90° in editor space.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Unit returns the normalized vector and true, or the zero vector and false
// when the length is below [Epsilon].
func (p Point) Unit() (Point, bool) {
	l := p.Len()
	if l < Epsilon {
		return Point{}, false
	}
	return Point{p.X / l, p.Y / l}, true
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool { return isFinite(p.X) && isFinite(p.Y) }

// Polar returns the unit vector at angle a (radians).
func Polar(a float64) Point { return Point{math.Cos(a), math.Sin(a)} }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
