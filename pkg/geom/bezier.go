package geom

// EvaluateCubic returns the point at parameter t ∈ [0,1] on the cubic Bezier
// curve with control points p0..p3.
func EvaluateCubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	uu, tt := u*u, t*t
	a, b, c, d := uu*u, 3*uu*t, 3*u*tt, tt*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// TangentCubic returns the derivative of the cubic at t. The result is not
// normalized and is zero where control points coincide with an endpoint.
func TangentCubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c := 3*u*u, 6*u*t, 3*t*t
	return Point{
		X: a*(p1.X-p0.X) + b*(p2.X-p1.X) + c*(p3.X-p2.X),
		Y: a*(p1.Y-p0.Y) + b*(p2.Y-p1.Y) + c*(p3.Y-p2.Y),
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point
}

// EmptyBounds returns bounds that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{Min: Point{inf, inf}, Max: Point{-inf, -inf}}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Extend grows b to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		Min: Point{min(b.Min.X, p.X), min(b.Min.Y, p.Y)},
		Max: Point{max(b.Max.X, p.X), max(b.Max.Y, p.Y)},
	}
}

// Pad grows b by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{Min: b.Min.Sub(Point{d, d}), Max: b.Max.Add(Point{d, d})}
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

const inf = 1e308
