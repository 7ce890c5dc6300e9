package stroke

import (
	"math"

	"github.com/matzehuels/feyndraw/pkg/geom"
)

// Wave parameterizes a decorated stroke, in editor-space units.
type Wave struct {
	Amplitude  float64
	Wavelength float64
}

// Defaults matching the photon and gluon line looks.
var (
	DefaultWavy   = Wave{Amplitude: 2.6, Wavelength: 15}
	DefaultSpring = Wave{Amplitude: 5, Wavelength: 7}
)

const (
	// DefaultArrowSize is the arrowhead length scale.
	DefaultArrowSize = 10.0
	// DefaultCrossSize is the half-length of each crossing tick.
	DefaultCrossSize = 6.0

	plainCurveSamples  = 64
	wavyCurveSamples   = 96
	springCurveSamples = 140

	wavyMinSamples   = 26
	wavyDensity      = 1.5
	springMinSamples = 42
	springDensity    = 0.9

	springTangentRatio = 0.25

	// maxSamples bounds straight decorated strokes on huge edges.
	maxSamples = 1 << 16
)

// Generator produces stroke polylines and marker geometry. The zero value is
// not usable; use [NewGenerator].
type Generator struct {
	Wavy      Wave
	Spring    Wave
	ArrowSize float64
	CrossSize float64
}

// NewGenerator returns a generator with the default wave and marker sizes.
func NewGenerator() Generator {
	return Generator{
		Wavy:      DefaultWavy,
		Spring:    DefaultSpring,
		ArrowSize: DefaultArrowSize,
		CrossSize: DefaultCrossSize,
	}
}

// Polyline approximates the stroke of p under kind k. The first point is
// p.Start and the last is p.End.
func (g Generator) Polyline(p Path, k Kind) []geom.Point {
	switch {
	case k == Wavy:
		return g.wave(p, g.Wavy, wavyOffset, wavyMinSamples, wavyDensity, wavyCurveSamples)
	case k == Spring:
		return g.wave(p, g.Spring, springOffset, springMinSamples, springDensity, springCurveSamples)
	case p.IsCurve():
		pts := make([]geom.Point, plainCurveSamples+1)
		for i := range pts {
			pts[i] = p.PointAt(float64(i) / plainCurveSamples)
		}
		return pts
	default:
		return []geom.Point{p.Start, p.End}
	}
}

// offsetFunc returns the displacement at arc length s, given the local unit
// tangent u and unit normal n.
type offsetFunc func(w Wave, k, s float64, u, n geom.Point) geom.Point

func wavyOffset(w Wave, k, s float64, _, n geom.Point) geom.Point {
	return n.Scale(w.Amplitude * math.Sin(k*s))
}

func springOffset(w Wave, k, s float64, u, n geom.Point) geom.Point {
	normal := n.Scale(w.Amplitude * math.Cos(k*s))
	tangential := u.Scale(springTangentRatio * w.Amplitude * math.Sin(k*s))
	return normal.Add(tangential)
}

func (g Generator) wave(p Path, w Wave, off offsetFunc, minSamples int, density float64, curveSamples int) []geom.Point {
	if w.Wavelength <= 0 {
		return g.Polyline(p, Solid)
	}
	k := 2 * math.Pi / w.Wavelength

	if p.IsCurve() {
		return waveOnCurve(p, w, k, off, curveSamples)
	}

	length := p.Chord().Len()
	u, ok := p.Chord().Unit()
	if !ok {
		return []geom.Point{p.Start, p.End}
	}
	n := u.Perp()
	steps := min(maxSamples, max(minSamples, int(math.Floor(length/density))))

	pts := make([]geom.Point, 0, steps+1)
	pts = append(pts, p.Start)
	for i := 1; i < steps; i++ {
		s := length * float64(i) / float64(steps)
		base := p.Start.Add(u.Scale(s))
		pts = append(pts, base.Add(off(w, k, s, u, n)))
	}
	return append(pts, p.End)
}

func waveOnCurve(p Path, w Wave, k float64, off offsetFunc, steps int) []geom.Point {
	pts := make([]geom.Point, 0, steps+1)
	pts = append(pts, p.Start)

	last := p.Start
	s := 0.0
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		base := p.PointAt(t)
		u := p.TangentAt(t)
		s += last.Dist(base)
		pts = append(pts, base.Add(off(w, k, s, u, u.Perp())))
		last = base
	}
	return append(pts, p.End)
}
