package diagram

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

// Diagram is a validated collection of elements with a shared, monotonic id
// allocator.
//
// The zero value is not usable; use [New].
type Diagram struct {
	points   map[ID]*Point
	edges    map[ID]*Edge
	ellipses map[ID]*Ellipse
	labels   map[ID]*Label
	next     ID
}

// New returns an empty diagram whose first allocated id is 1.
func New() *Diagram {
	return &Diagram{
		points:   make(map[ID]*Point),
		edges:    make(map[ID]*Edge),
		ellipses: make(map[ID]*Ellipse),
		labels:   make(map[ID]*Label),
		next:     1,
	}
}

// NextID returns the id the next Create call will assign.
func (d *Diagram) NextID() ID { return d.next }

// SetNextID moves the allocator forward. It never moves backward, so ids
// of live or deleted elements are never handed out again.
func (d *Diagram) SetNextID(id ID) error {
	if id < d.next {
		return errors.New(errors.ErrCodeValidation, "next id %d is below current allocator %d", id, d.next)
	}
	d.next = id
	return nil
}

func (d *Diagram) alloc() ID {
	id := d.next
	d.next++
	return id
}

// Len returns the number of live elements.
func (d *Diagram) Len() int {
	return len(d.points) + len(d.edges) + len(d.ellipses) + len(d.labels)
}

// CreatePoint adds a point. A zero radius selects [DefaultPointRadius].
func (d *Diagram) CreatePoint(pos geom.Point, radius float64) (*Point, error) {
	if radius == 0 {
		radius = DefaultPointRadius
	}
	p := &Point{Pos: pos, Radius: radius}
	if err := validatePoint(p); err != nil {
		return nil, err
	}
	p.ID = d.alloc()
	d.points[p.ID] = p
	return p, nil
}

// CreateEdge adds an edge. A nil control creates a straight edge; a non-nil
// control creates a curve through it.
func (d *Diagram) CreateEdge(start, end geom.Point, control *geom.Point, style Style) (*Edge, error) {
	e := &Edge{Kind: Straight, Start: start, End: end, Style: style}
	if control != nil {
		c := *control
		e.Kind = Curve
		e.Control = &c
	}
	if err := validateEdge(e); err != nil {
		return nil, err
	}
	e.ID = d.alloc()
	d.edges[e.ID] = e
	return e, nil
}

// CreateEllipse adds an ellipse. Radii below [MinEllipseRadius] are rejected.
func (d *Diagram) CreateEllipse(center geom.Point, rx, ry float64, color Color, width float64) (*Ellipse, error) {
	e := &Ellipse{Center: center, RX: rx, RY: ry, Color: color, Width: width}
	if err := validateEllipse(e); err != nil {
		return nil, err
	}
	e.ID = d.alloc()
	d.ellipses[e.ID] = e
	return e, nil
}

// CreateLabel adds an unbound label.
func (d *Diagram) CreateLabel(pos geom.Point, text string) (*Label, error) {
	l := &Label{Pos: pos, Text: text}
	if err := validateLabel(l); err != nil {
		return nil, err
	}
	l.ID = d.alloc()
	d.labels[l.ID] = l
	return l, nil
}

// Insert adds an element that already carries an id, as when restoring a
// saved snapshot. The id must be non-zero and unused; the allocator moves
// past it. Labels must be inserted after the edges they are bound to.
func (d *Diagram) Insert(el Element) error {
	id := el.ElementID()
	if id == 0 {
		return errors.New(errors.ErrCodeValidation, "%s has zero id", el.ElementKind())
	}
	if _, taken := d.Lookup(id); taken {
		return errors.New(errors.ErrCodeValidation, "id %d is already in use", id)
	}

	switch v := el.(type) {
	case *Point:
		if err := validatePoint(v); err != nil {
			return err
		}
		d.points[id] = v
	case *Edge:
		if err := validateEdge(v); err != nil {
			return err
		}
		d.edges[id] = v
	case *Ellipse:
		if err := validateEllipse(v); err != nil {
			return err
		}
		d.ellipses[id] = v
	case *Label:
		if err := validateLabel(v); err != nil {
			return err
		}
		if v.Binding != nil {
			if _, ok := d.edges[v.Binding.Edge]; !ok {
				return errors.New(errors.ErrCodeValidation, "label %d: bound edge %d does not exist", id, v.Binding.Edge)
			}
			if !v.Binding.Anchor.valid() || !v.Binding.Offset.IsFinite() {
				return errors.New(errors.ErrCodeValidation, "label %d: invalid binding", id)
			}
		}
		d.labels[id] = v
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported element %T", el)
	}
	d.next = max(d.next, id+1)
	return nil
}

// Lookup returns the element with the given id.
func (d *Diagram) Lookup(id ID) (Element, bool) {
	if p, ok := d.points[id]; ok {
		return p, true
	}
	if e, ok := d.edges[id]; ok {
		return e, true
	}
	if e, ok := d.ellipses[id]; ok {
		return e, true
	}
	if l, ok := d.labels[id]; ok {
		return l, true
	}
	return nil, false
}

// Point returns the point with the given id.
func (d *Diagram) Point(id ID) (*Point, bool) {
	p, ok := d.points[id]
	return p, ok
}

// Edge returns the edge with the given id.
func (d *Diagram) Edge(id ID) (*Edge, bool) {
	e, ok := d.edges[id]
	return e, ok
}

// Ellipse returns the ellipse with the given id.
func (d *Diagram) Ellipse(id ID) (*Ellipse, bool) {
	e, ok := d.ellipses[id]
	return e, ok
}

// Label returns the label with the given id.
func (d *Diagram) Label(id ID) (*Label, bool) {
	l, ok := d.labels[id]
	return l, ok
}

// Points returns all points in ascending id order.
func (d *Diagram) Points() []*Point { return sortedValues(d.points) }

// Edges returns all edges in ascending id order.
func (d *Diagram) Edges() []*Edge { return sortedValues(d.edges) }

// Ellipses returns all ellipses in ascending id order.
func (d *Diagram) Ellipses() []*Ellipse { return sortedValues(d.ellipses) }

// Labels returns all labels in ascending id order.
func (d *Diagram) Labels() []*Label { return sortedValues(d.labels) }

// Elements returns every element in ascending id order.
func (d *Diagram) Elements() []Element {
	out := make([]Element, 0, d.Len())
	for _, p := range d.points {
		out = append(out, p)
	}
	for _, e := range d.edges {
		out = append(out, e)
	}
	for _, e := range d.ellipses {
		out = append(out, e)
	}
	for _, l := range d.labels {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b Element) int {
		return cmp.Compare(a.ElementID(), b.ElementID())
	})
	return out
}

// Update applies fn to a copy of the element with the given id and commits
// the copy only if it is still valid. The id cannot be changed. Labels bound
// to an updated edge have their stored position refreshed.
func (d *Diagram) Update(id ID, fn func(Element)) error {
	el, ok := d.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "element %d not found", id)
	}

	switch orig := el.(type) {
	case *Point:
		cp := *orig
		fn(&cp)
		cp.ID = id
		if err := validatePoint(&cp); err != nil {
			return err
		}
		*orig = cp
	case *Edge:
		cp := *orig
		if orig.Control != nil {
			ctl := *orig.Control
			cp.Control = &ctl
		}
		fn(&cp)
		cp.ID = id
		if err := validateEdge(&cp); err != nil {
			return err
		}
		*orig = cp
		for _, l := range d.labels {
			if l.Binding != nil && l.Binding.Edge == id {
				l.Pos = d.ResolveLabelPosition(l)
			}
		}
	case *Ellipse:
		cp := *orig
		fn(&cp)
		cp.ID = id
		if err := validateEllipse(&cp); err != nil {
			return err
		}
		*orig = cp
	case *Label:
		cp := *orig
		if orig.Binding != nil {
			b := *orig.Binding
			cp.Binding = &b
		}
		fn(&cp)
		cp.ID = id
		if err := validateLabel(&cp); err != nil {
			return err
		}
		if cp.Binding != nil {
			if _, ok := d.edges[cp.Binding.Edge]; !ok {
				return errors.New(errors.ErrCodeValidation, "label %d: bound edge %d does not exist", id, cp.Binding.Edge)
			}
		}
		*orig = cp
	}
	return nil
}

// DeleteByID removes the element with the given id. Deleting an edge first
// freezes every label bound to it at its resolved position and unbinds it.
func (d *Diagram) DeleteByID(id ID) error {
	switch {
	case d.points[id] != nil:
		delete(d.points, id)
	case d.edges[id] != nil:
		for _, l := range d.labels {
			if l.Binding != nil && l.Binding.Edge == id {
				l.Pos = d.ResolveLabelPosition(l)
				l.Binding = nil
			}
		}
		delete(d.edges, id)
	case d.ellipses[id] != nil:
		delete(d.ellipses, id)
	case d.labels[id] != nil:
		delete(d.labels, id)
	default:
		return errors.New(errors.ErrCodeNotFound, "element %d not found", id)
	}
	return nil
}

// ReplaceWith validates src and, only if it is valid, replaces the contents
// of d with an independent copy of it. The allocator never moves backward.
func (d *Diagram) ReplaceWith(src *Diagram) error {
	if err := src.Validate(); err != nil {
		return err
	}
	c := src.Clone()
	c.next = max(c.next, d.next)
	*d = *c
	return nil
}

// Clone returns a deep copy that shares no memory with d.
func (d *Diagram) Clone() *Diagram {
	c := &Diagram{
		points:   make(map[ID]*Point, len(d.points)),
		edges:    make(map[ID]*Edge, len(d.edges)),
		ellipses: make(map[ID]*Ellipse, len(d.ellipses)),
		labels:   make(map[ID]*Label, len(d.labels)),
		next:     d.next,
	}
	for id, p := range d.points {
		cp := *p
		c.points[id] = &cp
	}
	for id, e := range d.edges {
		ce := *e
		if e.Control != nil {
			ctl := *e.Control
			ce.Control = &ctl
		}
		c.edges[id] = &ce
	}
	for id, e := range d.ellipses {
		ce := *e
		c.ellipses[id] = &ce
	}
	for id, l := range d.labels {
		cl := *l
		if l.Binding != nil {
			b := *l.Binding
			cl.Binding = &b
		}
		c.labels[id] = &cl
	}
	return c
}

func sortedValues[V any](m map[ID]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
