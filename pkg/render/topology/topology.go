package topology

import (
	"fmt"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// MergeTolerance is the distance, in editor px, under which two endpoints
// are the same vertex.
const MergeTolerance = 0.5

// Vertex is a junction of one or more propagators.
type Vertex struct {
	Name   string
	Pos    geom.Point
	Degree int
	// Dot is set when a drawn point sits on the vertex.
	Dot bool
}

// Propagator is an edge between two vertices.
type Propagator struct {
	Edge   diagram.ID
	From   string
	To     string
	Kind   stroke.Kind
	Arrow  stroke.Arrow
	Color  diagram.Color
	Labels map[diagram.Anchor]string
}

// IsLoop reports whether both ends meet at the same vertex.
func (p Propagator) IsLoop() bool { return p.From == p.To }

// Note is a label not bound to any edge.
type Note struct {
	ID   diagram.ID
	Pos  geom.Point
	Text string
}

// Graph is the merged topology of a diagram.
type Graph struct {
	Vertices    []Vertex
	Propagators []Propagator
	Notes       []Note
}

// Build merges endpoints and points into vertices. Vertices are named v1,
// v2, ... in discovery order: points by id first, then edge endpoints.
func Build(d *diagram.Diagram) Graph {
	var g Graph
	vertex := func(p geom.Point) int {
		for i, v := range g.Vertices {
			if v.Pos.Dist(p) <= MergeTolerance {
				return i
			}
		}
		g.Vertices = append(g.Vertices, Vertex{Name: fmt.Sprintf("v%d", len(g.Vertices)+1), Pos: p})
		return len(g.Vertices) - 1
	}

	for _, p := range d.Points() {
		g.Vertices[vertex(p.Pos)].Dot = true
	}

	byEdge := make(map[diagram.ID]int)
	for _, e := range d.Edges() {
		a, b := vertex(e.Start), vertex(e.End)
		g.Vertices[a].Degree++
		g.Vertices[b].Degree++
		byEdge[e.ID] = len(g.Propagators)
		g.Propagators = append(g.Propagators, Propagator{
			Edge:  e.ID,
			From:  g.Vertices[a].Name,
			To:    g.Vertices[b].Name,
			Kind:  e.Style.Stroke,
			Arrow: e.Style.Arrow,
			Color: e.Style.Color,
		})
	}

	for _, l := range d.Labels() {
		if l.Binding != nil {
			if i, ok := byEdge[l.Binding.Edge]; ok {
				p := &g.Propagators[i]
				if p.Labels == nil {
					p.Labels = make(map[diagram.Anchor]string)
				}
				p.Labels[l.Binding.Anchor] = l.Text
				continue
			}
		}
		g.Notes = append(g.Notes, Note{ID: l.ID, Pos: d.ResolveLabelPosition(l), Text: l.Text})
	}
	return g
}

// External returns the vertices with exactly one propagator attached.
func (g Graph) External() []Vertex {
	var out []Vertex
	for _, v := range g.Vertices {
		if v.Degree == 1 {
			out = append(out, v)
		}
	}
	return out
}

// Loops counts the independent cycles (E - V + C) over vertices that carry
// at least one propagator.
func (g Graph) Loops() int {
	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for _, p := range g.Propagators {
		for _, n := range []string{p.From, p.To} {
			if _, ok := parent[n]; !ok {
				parent[n] = n
			}
		}
		parent[find(p.From)] = find(p.To)
	}
	components := 0
	for n := range parent {
		if find(n) == n {
			components++
		}
	}
	return len(g.Propagators) - len(parent) + components
}
