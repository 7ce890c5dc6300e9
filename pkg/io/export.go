package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

type document struct {
	NextID   diagram.ID `json:"next_id"`
	Points   []point    `json:"points"`
	Edges    []edge     `json:"edges"`
	Ellipses []ellipse  `json:"ellipses"`
	Labels   []label    `json:"labels"`
}

type vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type point struct {
	ID     diagram.ID `json:"id"`
	Pos    vec        `json:"pos"`
	Radius float64    `json:"radius"`
}

type style struct {
	Stroke string  `json:"stroke"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Arrow  string  `json:"arrow"`
}

type edge struct {
	ID      diagram.ID `json:"id"`
	Kind    string     `json:"kind"`
	Start   vec        `json:"start"`
	End     vec        `json:"end"`
	Control *vec       `json:"control,omitempty"`
	Style   style      `json:"style"`
}

type ellipse struct {
	ID     diagram.ID `json:"id"`
	Center vec        `json:"center"`
	RX     float64    `json:"rx"`
	RY     float64    `json:"ry"`
	Color  string     `json:"color"`
	Width  float64    `json:"width"`
}

type binding struct {
	Edge   diagram.ID `json:"edge"`
	Anchor string     `json:"anchor"`
	Offset vec        `json:"offset"`
}

type label struct {
	ID      diagram.ID `json:"id"`
	Pos     vec        `json:"pos"`
	Text    string     `json:"text"`
	Binding *binding   `json:"binding,omitempty"`
}

func toVec(p geom.Point) vec { return vec{X: p.X, Y: p.Y} }

// WriteJSON encodes d as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] without losing ids or
// label bindings.
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

func toDocument(d *diagram.Diagram) document {
	out := document{
		NextID:   d.NextID(),
		Points:   make([]point, 0, len(d.Points())),
		Edges:    make([]edge, 0, len(d.Edges())),
		Ellipses: make([]ellipse, 0, len(d.Ellipses())),
		Labels:   make([]label, 0, len(d.Labels())),
	}
	for _, p := range d.Points() {
		out.Points = append(out.Points, point{ID: p.ID, Pos: toVec(p.Pos), Radius: p.Radius})
	}
	for _, e := range d.Edges() {
		ed := edge{
			ID:    e.ID,
			Kind:  e.Kind.String(),
			Start: toVec(e.Start),
			End:   toVec(e.End),
			Style: style{
				Stroke: e.Style.Stroke.String(),
				Color:  e.Style.Color.Hex(),
				Width:  e.Style.Width,
				Arrow:  e.Style.Arrow.String(),
			},
		}
		if e.Control != nil {
			c := toVec(*e.Control)
			ed.Control = &c
		}
		out.Edges = append(out.Edges, ed)
	}
	for _, e := range d.Ellipses() {
		out.Ellipses = append(out.Ellipses, ellipse{
			ID: e.ID, Center: toVec(e.Center), RX: e.RX, RY: e.RY,
			Color: e.Color.Hex(), Width: e.Width,
		})
	}
	for _, l := range d.Labels() {
		lb := label{ID: l.ID, Pos: toVec(d.ResolveLabelPosition(l)), Text: l.Text}
		if b := l.Binding; b != nil {
			lb.Binding = &binding{Edge: b.Edge, Anchor: b.Anchor.String(), Offset: toVec(b.Offset)}
		}
		out.Labels = append(out.Labels, lb)
	}
	return out
}
