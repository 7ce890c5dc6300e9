package tikz

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/feyndraw/pkg/geom"
)

// Scale is the number of editor pixels per text unit.
const Scale = 20.0

const (
	minPointRadius = 0.04 // text units
	minLineWidth   = 0.4  // pt
	defaultWidth   = 2.0  // editor px, when line width is absent

	arrowCommentKey = "edge-arrow:"
)

// ToTextUnits maps an editor-space point to text units.
func ToTextUnits(p geom.Point) geom.Point {
	return geom.Point{X: p.X / Scale, Y: -p.Y / Scale}
}

// ToEditorSpace maps a text-unit point to editor space.
func ToEditorSpace(p geom.Point) geom.Point {
	return geom.Point{X: p.X * Scale, Y: -p.Y * Scale}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCoord(p geom.Point) string {
	t := ToTextUnits(p)
	return "(" + formatNum(t.X) + ", " + formatNum(t.Y) + ")"
}

// stripMath removes every run of whitespace and $ delimiters from both ends,
// so display math and doubly wrapped text reach a fixed point in one pass.
func stripMath(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '$' || unicode.IsSpace(r)
	})
}
