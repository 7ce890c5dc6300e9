// Package diagram holds the in-memory model of a Feynman-style diagram:
// points, edges, ellipses and labels sharing one id space.
//
// # Overview
//
// A [Diagram] owns its id allocator. Every Create call validates its input,
// takes the next id and inserts the element; a rejected call leaves the
// diagram untouched. Ids are unique across all four element kinds and are
// never reused while the diagram is live.
//
// # Bindings
//
// A [Label] may be bound to an anchor of an [Edge] (start, mid or end) plus a
// fixed offset. A bound label's position is derived:
//
//	pos := d.ResolveLabelPosition(label) // anchor point + offset
//
// Deleting an edge with [Diagram.DeleteByID] freezes every label bound to it
// at its last resolved position and clears the binding.
//
// # Coordinates
//
// All positions are editor space: float64, origin top-left, +y down.
//
// A Diagram is not safe for concurrent mutation. Use [Diagram.Clone] to hand
// an independent snapshot to another goroutine.
package diagram
