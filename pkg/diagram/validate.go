package diagram

import (
	"github.com/matzehuels/feyndraw/pkg/errors"
)

// Validate checks every invariant of the diagram: ids are non-zero, unique
// across kinds and below the allocator; coordinates are finite; sizes are
// positive; curve edges carry a control and straight edges do not; ellipse
// radii respect [MinEllipseRadius]; bindings reference live edges.
func (d *Diagram) Validate() error {
	seen := make(map[ID]Kind, d.Len())
	check := func(id ID, k Kind) error {
		if id == 0 {
			return errors.New(errors.ErrCodeValidation, "%s has zero id", k)
		}
		if id >= d.next {
			return errors.New(errors.ErrCodeValidation, "%s %d is not below next id %d", k, id, d.next)
		}
		if prev, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeValidation, "id %d used by both %s and %s", id, prev, k)
		}
		seen[id] = k
		return nil
	}

	for id, p := range d.points {
		if err := check(id, KindPoint); err != nil {
			return err
		}
		if err := validatePoint(p); err != nil {
			return err
		}
	}
	for id, e := range d.edges {
		if err := check(id, KindEdge); err != nil {
			return err
		}
		if err := validateEdge(e); err != nil {
			return err
		}
	}
	for id, e := range d.ellipses {
		if err := check(id, KindEllipse); err != nil {
			return err
		}
		if err := validateEllipse(e); err != nil {
			return err
		}
	}
	for id, l := range d.labels {
		if err := check(id, KindLabel); err != nil {
			return err
		}
		if err := validateLabel(l); err != nil {
			return err
		}
		if l.Binding == nil {
			continue
		}
		if _, ok := d.edges[l.Binding.Edge]; !ok {
			return errors.New(errors.ErrCodeValidation, "label %d: bound edge %d does not exist", id, l.Binding.Edge)
		}
		if !l.Binding.Anchor.valid() {
			return errors.New(errors.ErrCodeValidation, "label %d: invalid anchor %v", id, l.Binding.Anchor)
		}
		if !l.Binding.Offset.IsFinite() {
			return errors.New(errors.ErrCodeValidation, "label %d: binding offset must be finite", id)
		}
	}
	return nil
}

func validatePoint(p *Point) error {
	if !p.Pos.IsFinite() {
		return errors.New(errors.ErrCodeValidation, "point %d: position must be finite", p.ID)
	}
	return errors.ValidatePositive("point radius", p.Radius)
}

func validateEdge(e *Edge) error {
	if !e.Start.IsFinite() || !e.End.IsFinite() {
		return errors.New(errors.ErrCodeValidation, "edge %d: endpoints must be finite", e.ID)
	}
	switch e.Kind {
	case Straight:
		if e.Control != nil {
			return errors.New(errors.ErrCodeValidation, "edge %d: straight edge cannot carry a control point", e.ID)
		}
	case Curve:
		if e.Control == nil {
			return errors.New(errors.ErrCodeValidation, "edge %d: curve edge requires a control point", e.ID)
		}
		if !e.Control.IsFinite() {
			return errors.New(errors.ErrCodeValidation, "edge %d: control point must be finite", e.ID)
		}
	default:
		return errors.New(errors.ErrCodeValidation, "edge %d: unknown kind %d", e.ID, int(e.Kind))
	}
	if !e.Style.Stroke.IsValid() {
		return errors.New(errors.ErrCodeValidation, "edge %d: unknown stroke %v", e.ID, e.Style.Stroke)
	}
	if !e.Style.Arrow.IsValid() {
		return errors.New(errors.ErrCodeValidation, "edge %d: unknown arrow %v", e.ID, e.Style.Arrow)
	}
	return errors.ValidatePositive("edge width", e.Style.Width)
}

func validateEllipse(e *Ellipse) error {
	if !e.Center.IsFinite() {
		return errors.New(errors.ErrCodeValidation, "ellipse %d: center must be finite", e.ID)
	}
	if err := errors.ValidateAtLeast("ellipse rx", e.RX, MinEllipseRadius); err != nil {
		return err
	}
	if err := errors.ValidateAtLeast("ellipse ry", e.RY, MinEllipseRadius); err != nil {
		return err
	}
	return errors.ValidatePositive("ellipse width", e.Width)
}

func validateLabel(l *Label) error {
	if !l.Pos.IsFinite() {
		return errors.New(errors.ErrCodeValidation, "label %d: position must be finite", l.ID)
	}
	return errors.ValidateLabelText(l.Text)
}
