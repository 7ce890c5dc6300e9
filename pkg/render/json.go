package render

import (
	"encoding/json"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

type jsonOutput struct {
	MinX     float64       `json:"min_x"`
	MinY     float64       `json:"min_y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Points   []jsonDot     `json:"points"`
	Strokes  []jsonStroke  `json:"strokes"`
	Markers  []jsonMarker  `json:"markers,omitempty"`
	Ellipses []jsonEllipse `json:"ellipses"`
	Labels   []jsonLabel   `json:"labels"`
}

type jsonDot struct {
	ID     diagram.ID `json:"id"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Radius float64    `json:"radius"`
}

type jsonStroke struct {
	Edge   diagram.ID   `json:"edge"`
	Kind   string       `json:"kind"`
	Color  string       `json:"color"`
	Width  float64      `json:"width"`
	Dash   []float64    `json:"dash,omitempty"`
	Points [][2]float64 `json:"points"`
}

type jsonMarker struct {
	Edge     diagram.ID     `json:"edge"`
	Kind     string         `json:"kind"`
	Color    string         `json:"color"`
	Width    float64        `json:"width"`
	Polygon  [][2]float64   `json:"polygon,omitempty"`
	Segments [][][2]float64 `json:"segments,omitempty"`
}

type jsonEllipse struct {
	ID    diagram.ID `json:"id"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	RX    float64    `json:"rx"`
	RY    float64    `json:"ry"`
	Fill  string     `json:"fill"`
	Color string     `json:"color"`
	Width float64    `json:"width"`
}

type jsonLabel struct {
	ID   diagram.ID `json:"id"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Text string     `json:"text"`
}

// RenderJSON emits the flattened scene as indented JSON.
func RenderJSON(d *diagram.Diagram, opts ...Option) ([]byte, error) {
	s := buildScene(d, newOptions(opts...))
	w, h := s.Size()

	out := jsonOutput{
		MinX:     s.Bounds.Min.X,
		MinY:     s.Bounds.Min.Y,
		Width:    w,
		Height:   h,
		Points:   make([]jsonDot, 0, len(s.Dots)),
		Strokes:  make([]jsonStroke, 0, len(s.Strokes)),
		Ellipses: make([]jsonEllipse, 0, len(s.Ellipses)),
		Labels:   make([]jsonLabel, 0, len(s.Texts)),
	}
	for _, p := range s.Dots {
		out.Points = append(out.Points, jsonDot{ID: p.ID, X: p.Center.X, Y: p.Center.Y, Radius: p.Radius})
	}
	for _, st := range s.Strokes {
		out.Strokes = append(out.Strokes, jsonStroke{
			Edge:   st.EdgeID,
			Kind:   st.Kind.String(),
			Color:  st.Color.Hex(),
			Width:  st.Width,
			Dash:   st.Dash,
			Points: pairs(st.Points),
		})
	}
	for _, m := range s.Marks {
		jm := jsonMarker{
			Edge:    m.EdgeID,
			Kind:    m.Kind.String(),
			Color:   m.Color.Hex(),
			Width:   m.Width,
			Polygon: pairs(m.Polygon),
		}
		for _, seg := range m.Segments {
			jm.Segments = append(jm.Segments, pairs(seg[:]))
		}
		out.Markers = append(out.Markers, jm)
	}
	for _, e := range s.Ellipses {
		out.Ellipses = append(out.Ellipses, jsonEllipse{
			ID: e.ID, X: e.Center.X, Y: e.Center.Y, RX: e.RX, RY: e.RY,
			Fill: EllipseFill.Hex(), Color: e.Color.Hex(), Width: e.Width,
		})
	}
	for _, t := range s.Texts {
		out.Labels = append(out.Labels, jsonLabel{ID: t.ID, X: t.Pos.X, Y: t.Pos.Y, Text: t.Text})
	}

	return json.MarshalIndent(out, "", "  ")
}

func pairs(pts []geom.Point) [][2]float64 {
	if len(pts) == 0 {
		return nil
	}
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
