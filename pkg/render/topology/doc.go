// Package topology renders the vertex/propagator structure of a diagram
// with Graphviz.
//
// # Overview
//
// Edge endpoints that lie within [MergeTolerance] of each other are merged
// into one vertex, so a drawing made of loose edges still reads as a graph.
// Each edge becomes a propagator between two vertices, styled by its stroke
// kind and arrow.
//
// # Usage
//
//	dot := topology.ToDOT(d)
//	svg, err := topology.RenderSVG(dot)
//
// Vertices are pinned at their drawing position (neato layout), so the
// output keeps the shape of the original diagram. Labels bound to an edge
// become edge labels; free labels become plaintext nodes.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG go through rsvg-convert, see
// [github.com/matzehuels/feyndraw/pkg/render.ToPDF].
package topology
