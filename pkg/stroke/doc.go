// Package stroke generates the visual geometry of diagram edges.
//
// # Overview
//
// An edge is described by a [Path]: a start point, an end point and, for
// curved edges, a single control point that is used as both inner control
// points of a cubic Bezier. Every query on a path (point, tangent, angle at a
// parameter t ∈ [0,1]) works identically for straight and curved edges.
//
// # Stroke Kinds
//
// A [Generator] turns a path into a polyline under one of five [Kind]s:
//
//   - [Solid], [Dashed], [Dotted]: the raw line or curve. Dash patterns are a
//     paint concern and are exposed through [Kind.DashArray].
//   - [Wavy] ("photon"): a sine offset along the unit normal, marched in arc
//     length from the start point.
//   - [Spring] ("gluon"): a cosine normal offset combined with a smaller
//     tangential sine offset, which draws a coil silhouette.
//
// Decorated strokes on straight paths are sampled uniformly in arc length.
// On curved paths they are sampled uniformly in t with a fixed budget, and
// the phase follows the accumulated chord length, so very tight curvature
// shows slightly uneven waves.
//
// Every polyline starts exactly at the path start and ends exactly at the
// path end, and generation is deterministic.
//
// # Markers
//
// [Generator.Markers] places arrowheads or crossing ticks for an [Arrow]
// style:
//
//	g := stroke.NewGenerator()
//	for _, m := range g.Markers(stroke.Line(a, b), stroke.ArrowMidCross) {
//	    // m.Kind == stroke.MarkerCross, m.Segments holds the two ticks
//	}
package stroke
