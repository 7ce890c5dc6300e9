// Package io provides JSON import and export for diagrams.
//
// # Overview
//
// The TikZ text form drops editor-only state: label bindings and element
// ids. This package carries the complete Diagram IR as JSON so an editor
// front-end can exchange snapshots with the codec without losing them:
//
//   - Ids and the allocator position survive a round trip
//   - Label bindings survive a round trip
//   - Colors are #rrggbb strings; enums are their lower-case names
//
// # JSON Format
//
//	{
//	  "next_id": 4,
//	  "points":   [{"id": 1, "pos": {"x": 0, "y": 0}, "radius": 3}],
//	  "edges":    [{"id": 2, "kind": "straight",
//	                "start": {"x": 0, "y": 0}, "end": {"x": 100, "y": 0},
//	                "style": {"stroke": "wavy", "color": "#000000", "width": 2, "arrow": "forward"}}],
//	  "ellipses": [],
//	  "labels":   [{"id": 3, "pos": {"x": 50, "y": -10}, "text": "\\gamma",
//	                "binding": {"edge": 2, "anchor": "mid", "offset": {"x": 0, "y": -10}}}]
//	}
//
// Curve edges carry a "control" point and "kind": "curve".
//
// # Import
//
// Use [ImportJSON] to read a diagram from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the result; a document that would break
// a diagram invariant is rejected as a whole.
//
// # Export
//
// Use [ExportJSON] to write a diagram to a file, or [WriteJSON] to write to
// any io.Writer. Elements are written in ascending id order.
package io
