package diagram

import (
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

// AnchorPoint returns the point at the anchor's parameter on e.
func AnchorPoint(e *Edge, a Anchor) geom.Point {
	return e.Path().PointAt(a.T())
}

// ResolveLabelPosition returns the derived position of a bound label, or its
// stored position when unbound or when the bound edge is not in d.
func (d *Diagram) ResolveLabelPosition(l *Label) geom.Point {
	if l.Binding == nil {
		return l.Pos
	}
	e, ok := d.edges[l.Binding.Edge]
	if !ok {
		return l.Pos
	}
	return AnchorPoint(e, l.Binding.Anchor).Add(l.Binding.Offset)
}

// Bind ties a label to an edge anchor, keeping the label where it is: the
// offset is the label's current position minus the anchor point.
func (d *Diagram) Bind(labelID, edgeID ID, a Anchor) error {
	l, e, err := d.bindTargets(labelID, edgeID, a)
	if err != nil {
		return err
	}
	pos := d.ResolveLabelPosition(l)
	off := pos.Sub(AnchorPoint(e, a))
	l.Binding = &Binding{Edge: edgeID, Anchor: a, Offset: off}
	l.Pos = pos
	return nil
}

// BindWithOffset ties a label to an edge anchor with an explicit offset and
// moves the label to the resulting position.
func (d *Diagram) BindWithOffset(labelID, edgeID ID, a Anchor, offset geom.Point) error {
	if !offset.IsFinite() {
		return errors.New(errors.ErrCodeValidation, "label %d: binding offset must be finite", labelID)
	}
	l, e, err := d.bindTargets(labelID, edgeID, a)
	if err != nil {
		return err
	}
	l.Binding = &Binding{Edge: edgeID, Anchor: a, Offset: offset}
	l.Pos = AnchorPoint(e, a).Add(offset)
	return nil
}

// Unbind freezes a label at its resolved position. Unbinding an unbound
// label is a no-op.
func (d *Diagram) Unbind(labelID ID) error {
	l, ok := d.labels[labelID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "label %d not found", labelID)
	}
	l.Pos = d.ResolveLabelPosition(l)
	l.Binding = nil
	return nil
}

func (d *Diagram) bindTargets(labelID, edgeID ID, a Anchor) (*Label, *Edge, error) {
	l, ok := d.labels[labelID]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "label %d not found", labelID)
	}
	e, ok := d.edges[edgeID]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeValidation, "label %d: bound edge %d does not exist", labelID, edgeID)
	}
	if !a.valid() {
		return nil, nil, errors.New(errors.ErrCodeValidation, "label %d: invalid anchor %v", labelID, a)
	}
	return l, e, nil
}
