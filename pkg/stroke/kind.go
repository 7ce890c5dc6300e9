package stroke

import "fmt"

// Kind selects how an edge is stroked.
type Kind int

const (
	Solid Kind = iota
	Dashed
	Dotted
	Wavy
	Spring
)

var kindNames = map[Kind]string{
	Solid:  "solid",
	Dashed: "dashed",
	Dotted: "dotted",
	Wavy:   "wavy",
	Spring: "spring",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// DashArray returns the SVG dash pattern for the kind, or nil for a
// continuous stroke.
func (k Kind) DashArray() []float64 {
	switch k {
	case Dashed:
		return []float64{8, 6}
	case Dotted:
		return []float64{2, 6}
	}
	return nil
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Solid, fmt.Errorf("unknown stroke kind %q", s)
}

// Arrow selects which markers an edge carries.
type Arrow int

const (
	ArrowNone Arrow = iota
	ArrowForward
	ArrowBackward
	ArrowBoth
	ArrowMidForward
	ArrowMidBackward
	ArrowMidCross
)

var arrowNames = map[Arrow]string{
	ArrowNone:        "none",
	ArrowForward:     "forward",
	ArrowBackward:    "backward",
	ArrowBoth:        "both",
	ArrowMidForward:  "mid-forward",
	ArrowMidBackward: "mid-backward",
	ArrowMidCross:    "mid-cross",
}

func (a Arrow) String() string {
	if s, ok := arrowNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Arrow(%d)", int(a))
}

// IsValid reports whether a is one of the defined arrow styles.
func (a Arrow) IsValid() bool {
	_, ok := arrowNames[a]
	return ok
}

// IsMid reports whether the marker sits at the middle of the path.
func (a Arrow) IsMid() bool {
	return a == ArrowMidForward || a == ArrowMidBackward || a == ArrowMidCross
}

// ParseArrow returns the arrow style with the given name.
func ParseArrow(s string) (Arrow, error) {
	for a, name := range arrowNames {
		if name == s {
			return a, nil
		}
	}
	return ArrowNone, fmt.Errorf("unknown arrow style %q", s)
}
