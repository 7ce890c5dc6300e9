package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

func (v vec) point() geom.Point { return geom.Pt(v.X, v.Y) }

// ReadJSON decodes a JSON diagram from r.
//
// Element ids are preserved and the allocator is set to the larger of
// "next_id" and one past the highest id. Edges are inserted before labels
// so bindings can be checked.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (code INVALID_FORMAT)
//   - An enum name or color is unknown (code INVALID_FORMAT)
//   - An element breaks a diagram invariant (code VALIDATION_FAILED)
//
// The returned diagram is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*diagram.Diagram, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}

	d := diagram.New()
	for _, p := range doc.Points {
		if err := d.Insert(&diagram.Point{ID: p.ID, Pos: p.Pos.point(), Radius: p.Radius}); err != nil {
			return nil, fmt.Errorf("point %d: %w", p.ID, err)
		}
	}
	for _, e := range doc.Edges {
		el, err := fromEdge(e)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		if err := d.Insert(el); err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
	}
	for _, e := range doc.Ellipses {
		c, err := diagram.ParseHexColor(e.Color)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "ellipse %d", e.ID)
		}
		el := &diagram.Ellipse{ID: e.ID, Center: e.Center.point(), RX: e.RX, RY: e.RY, Color: c, Width: e.Width}
		if err := d.Insert(el); err != nil {
			return nil, fmt.Errorf("ellipse %d: %w", e.ID, err)
		}
	}
	for _, l := range doc.Labels {
		lb := &diagram.Label{ID: l.ID, Pos: l.Pos.point(), Text: l.Text}
		if b := l.Binding; b != nil {
			a, err := diagram.ParseAnchor(b.Anchor)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "label %d", l.ID)
			}
			lb.Binding = &diagram.Binding{Edge: b.Edge, Anchor: a, Offset: b.Offset.point()}
		}
		if err := d.Insert(lb); err != nil {
			return nil, fmt.Errorf("label %d: %w", l.ID, err)
		}
	}

	if doc.NextID > d.NextID() {
		if err := d.SetNextID(doc.NextID); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func fromEdge(e edge) (*diagram.Edge, error) {
	k, err := stroke.ParseKind(e.Style.Stroke)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "style")
	}
	a, err := stroke.ParseArrow(e.Style.Arrow)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "style")
	}
	c, err := diagram.ParseHexColor(e.Style.Color)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "style")
	}

	out := &diagram.Edge{
		ID:    e.ID,
		Start: e.Start.point(),
		End:   e.End.point(),
		Style: diagram.Style{Stroke: k, Color: c, Width: e.Style.Width, Arrow: a},
	}
	switch e.Kind {
	case "straight", "":
		out.Kind = diagram.Straight
	case "curve":
		out.Kind = diagram.Curve
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown edge kind %q", e.Kind)
	}
	if e.Control != nil {
		ctl := e.Control.point()
		out.Control = &ctl
	}
	return out, nil
}

// ImportJSON reads a JSON file at path and returns the decoded diagram.
//
// ImportJSON returns the same errors as [ReadJSON], wrapped with the file
// path for context.
func ImportJSON(path string) (*diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
