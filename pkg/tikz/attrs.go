package tikz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// drawAttrs is what an option list of a \draw statement specifies.
type drawAttrs struct {
	stroke    stroke.Kind
	color     diagram.Color
	width     float64 // editor px
	arrow     stroke.Arrow
	hasStroke bool
}

var arrowTips = map[string]stroke.Arrow{
	"->":                  stroke.ArrowForward,
	"<-":                  stroke.ArrowBackward,
	"<->":                 stroke.ArrowBoth,
	"-{Stealth}":          stroke.ArrowForward,
	"{Stealth}-":          stroke.ArrowBackward,
	"{Stealth}-{Stealth}": stroke.ArrowBoth,
}

// splitOptions splits an option list at commas that are not inside braces.
// Empty items are dropped.
func splitOptions(s string) []string {
	var out []string
	depth, start := 0, 0
	flush := func(end int) {
		if item := strings.TrimSpace(s[start:end]); item != "" {
			out = append(out, item)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return out
}

// parseDrawAttrs interprets an option list. Unknown options are an error.
func parseDrawAttrs(s string) (drawAttrs, error) {
	a := drawAttrs{stroke: stroke.Solid, color: diagram.Black, width: defaultWidth}
	setStroke := func(k stroke.Kind) error {
		if a.hasStroke && a.stroke != k {
			return fmt.Errorf("conflicting stroke styles %s and %s", a.stroke, k)
		}
		a.stroke, a.hasStroke = k, true
		return nil
	}

	for _, opt := range splitOptions(s) {
		key, val, hasVal := strings.Cut(opt, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch {
		case opt == "dashed":
			if err := setStroke(stroke.Dashed); err != nil {
				return a, err
			}
		case opt == "dotted":
			if err := setStroke(stroke.Dotted); err != nil {
				return a, err
			}
		case opt == "decorate":
		case hasVal && key == "decoration":
			k, err := parseDecoration(val)
			if err != nil {
				return a, err
			}
			if err := setStroke(k); err != nil {
				return a, err
			}
		case hasVal && key == "draw":
			c, err := parseRGB(val)
			if err != nil {
				return a, err
			}
			a.color = c
		case hasVal && key == "line width":
			w, err := parsePt(val)
			if err != nil {
				return a, err
			}
			a.width = w * 2
		case hasVal && (key == "fill" || key == "postaction"):
			// Accepted and ignored: ellipse fill and mid-edge marker drawing.
		default:
			arrow, ok := arrowTips[opt]
			if !ok {
				return a, fmt.Errorf("unsupported option %q", opt)
			}
			a.arrow = arrow
		}
	}
	return a, nil
}

// parseDecoration maps {snake, ...} to wavy and {coil, ...} to spring.
func parseDecoration(val string) (stroke.Kind, error) {
	inner, ok := unbrace(val)
	if !ok {
		return stroke.Solid, fmt.Errorf("decoration must be braced: %q", val)
	}
	name, _, _ := strings.Cut(inner, ",")
	switch strings.TrimSpace(name) {
	case "snake":
		return stroke.Wavy, nil
	case "coil":
		return stroke.Spring, nil
	}
	return stroke.Solid, fmt.Errorf("unsupported decoration %q", strings.TrimSpace(name))
}

// parseRGB parses {rgb,255:red,R;green,G;blue,B}.
func parseRGB(val string) (diagram.Color, error) {
	inner, ok := unbrace(val)
	if !ok {
		return diagram.Color{}, fmt.Errorf("color must be an rgb triple: %q", val)
	}
	rest, ok := strings.CutPrefix(strings.ReplaceAll(inner, " ", ""), "rgb,255:")
	if !ok {
		return diagram.Color{}, fmt.Errorf("color must be an rgb triple: %q", val)
	}
	channels := strings.Split(rest, ";")
	names := [3]string{"red", "green", "blue"}
	if len(channels) != len(names) {
		return diagram.Color{}, fmt.Errorf("color must have three channels: %q", val)
	}
	var rgb [3]uint8
	for i, ch := range channels {
		num, ok := strings.CutPrefix(ch, names[i]+",")
		if !ok {
			return diagram.Color{}, fmt.Errorf("expected %s channel in %q", names[i], val)
		}
		v, err := strconv.ParseUint(num, 10, 8)
		if err != nil {
			return diagram.Color{}, fmt.Errorf("%s channel %q: %w", names[i], num, err)
		}
		rgb[i] = uint8(v)
	}
	return diagram.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// parsePt parses "<n>pt".
func parsePt(val string) (float64, error) {
	num, ok := strings.CutSuffix(val, "pt")
	if !ok {
		return 0, fmt.Errorf("line width must be in pt: %q", val)
	}
	v, err := parseFinite(strings.TrimSpace(num))
	if err != nil {
		return 0, fmt.Errorf("line width: %w", err)
	}
	return v, nil
}

func unbrace(s string) (string, bool) {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// parseFinite parses a decimal number and rejects NaN, infinities and
// overflow.
func parseFinite(s string) (float64, error) {
	if end := scanNumber(s, 0); end != len(s) || end == 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
