// Package geom provides the 2-D point math and cubic Bezier primitives used by
// the stroke generators, the renderers, and the diagram model.
//
// All coordinates are editor-space float64 values: origin top-left, +y down.
// Vectors and positions share the [Point] type.
//
// # Bezier Curves
//
// Curved diagram edges are quadratic in shape but are evaluated through the
// cubic machinery: the single control point is used for both inner control
// points, so straight and curved edges share one code path:
//
//	p := geom.EvaluateCubic(start, ctrl, ctrl, end, 0.5)
//	d := geom.TangentCubic(start, ctrl, ctrl, end, 0.5) // not normalized
//
// [TangentCubic] returns the raw derivative. Callers that normalize it must
// handle the near-zero case themselves (see [Point.Unit]).
package geom
