package tikz

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

func styleOf(k stroke.Kind, c diagram.Color, w float64, a stroke.Arrow) diagram.Style {
	return diagram.Style{Stroke: k, Color: c, Width: w, Arrow: a}
}

// sampleDiagram has one element of each kind plus a bound label.
func sampleDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	must := func(_ any, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(d.CreatePoint(geom.Pt(20, 40), 3))
	must(d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), nil,
		styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowForward)))
	ctl := geom.Pt(50, -40)
	must(d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), &ctl,
		styleOf(stroke.Wavy, diagram.Color{R: 255}, 3, stroke.ArrowMidCross)))
	must(d.CreateEllipse(geom.Pt(60, 60), 30, 20, diagram.Black, 1))
	l, err := d.CreateLabel(geom.Pt(0, 0), "$e^-$")
	must(l, err)
	if err := d.BindWithOffset(l.ID, 2, diagram.AnchorMid, geom.Pt(0, -10)); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSerializeConcreteEdge(t *testing.T) {
	d := diagram.New()
	if _, err := d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), nil,
		styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowForward)); err != nil {
		t.Fatal(err)
	}

	want := `\draw[draw={rgb,255:red,0;green,0;blue,0}, line width=1.00pt, -{Stealth}] (0.00, -0.00) -- (5.00, -0.00);`
	out := Serialize(d)
	if !strings.Contains(out, "\n  "+want+"\n") {
		t.Errorf("Serialize() missing line\nwant: %s\ngot:\n%s", want, out)
	}
}

func TestSerializeDocument(t *testing.T) {
	want := `% Auto-generated by feyndraw
% Editable subset: \fill / \draw / \node
% Requires \usetikzlibrary{decorations.pathmorphing,decorations.markings,arrows.meta}
\begin{tikzpicture}
  \fill (1.00, -2.00) circle (0.15);
  \draw[draw={rgb,255:red,0;green,0;blue,0}, line width=1.00pt, -{Stealth}] (0.00, -0.00) -- (5.00, -0.00);
  \draw[draw={rgb,255:red,255;green,0;blue,0}, line width=1.50pt, decorate, decoration={snake, segment length=10pt, amplitude=2pt}, ` +
		arrowAttrs[stroke.ArrowMidCross] + `] (0.00, -0.00) .. controls (2.50, 2.00) .. (5.00, -0.00); % edge-arrow: mid-cross
  \draw[fill=gray!20, draw={rgb,255:red,0;green,0;blue,0}, line width=0.50pt] (3.00, -3.00) ellipse (1.50 and 1.00);
  \node at (2.50, 0.50) {$e^-$};
\end{tikzpicture}
`
	if got := Serialize(sampleDiagram(t)); got != want {
		t.Errorf("Serialize() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeFloors(t *testing.T) {
	d := diagram.New()
	if _, err := d.CreatePoint(geom.Pt(0, 0), 0.2); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateEdge(geom.Pt(0, 0), geom.Pt(1, 0), nil,
		styleOf(stroke.Dotted, diagram.Black, 0.1, stroke.ArrowNone)); err != nil {
		t.Fatal(err)
	}
	out := Serialize(d)
	for _, want := range []string{"circle (0.04);", "line width=0.40pt, dotted]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSerializeStripsMathDelimiters(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"e^-", "{$e^-$}"},
		{"$e^-$", "{$e^-$}"},
		{"  $\\gamma_{\\mu}$ ", "{$\\gamma_{\\mu}$}"},
		{"$x", "{$x$}"},
		{"", "{$$}"},
		{"$$x$$", "{$x$}"},
		{"$ $x$ $", "{$x$}"},
		{"\t$a_1$\t", "{$a_1$}"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := diagram.New()
			if _, err := d.CreateLabel(geom.Pt(0, 0), tt.text); err != nil {
				t.Fatal(err)
			}
			if out := Serialize(d); !strings.Contains(out, tt.want) {
				t.Errorf("output missing %s:\n%s", tt.want, out)
			}
		})
	}
}

func TestRoundTripMathDelimiters(t *testing.T) {
	for _, text := range []string{"$$x$$", "$ $x$ $", "$$$y$$$", " $\\alpha$\t", "$"} {
		t.Run(text, func(t *testing.T) {
			d := diagram.New()
			if _, err := d.CreateLabel(geom.Pt(0, 0), text); err != nil {
				t.Fatal(err)
			}
			first := Serialize(d)
			parsed, err := Parse(first)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if second := Serialize(parsed); second != first {
				t.Fatalf("round trip not stable\nfirst:\n%s\nsecond:\n%s", first, second)
			}
		})
	}
}

func TestRoundTripStable(t *testing.T) {
	d := diagram.New()
	kinds := []stroke.Kind{stroke.Solid, stroke.Dashed, stroke.Dotted, stroke.Wavy, stroke.Spring}
	arrows := []stroke.Arrow{
		stroke.ArrowNone, stroke.ArrowForward, stroke.ArrowBackward, stroke.ArrowBoth,
		stroke.ArrowMidForward, stroke.ArrowMidBackward, stroke.ArrowMidCross,
	}
	n := 0
	for _, k := range kinds {
		for _, a := range arrows {
			n++
			i := float64(n)
			var ctl *geom.Point
			if n%2 == 0 {
				c := geom.Pt(i*7.31, -i*3.17)
				ctl = &c
			}
			color := diagram.Color{R: uint8(n * 7), G: uint8(n * 5), B: uint8(255 - n)}
			_, err := d.CreateEdge(geom.Pt(i*1.234, i*2.345), geom.Pt(-i*4.567, 321.01-i), ctl,
				styleOf(k, color, 0.8+i*0.37, a))
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if _, err := d.CreatePoint(geom.Pt(-13.37, 0.004), 2.5); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateEllipse(geom.Pt(11.1, -22.2), 1, 33.33, diagram.Color{G: 128}, 1.5); err != nil {
		t.Fatal(err)
	}
	l, err := d.CreateLabel(geom.Pt(5, 5), `$\bar{q}$`)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Bind(l.ID, 1, diagram.AnchorEnd); err != nil {
		t.Fatal(err)
	}

	first := Serialize(d)
	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if second := Serialize(parsed); second != first {
		t.Fatalf("round trip not stable\nfirst:\n%s\nsecond:\n%s", first, second)
	}

	if parsed.Len() != d.Len() {
		t.Fatalf("parsed %d elements, want %d", parsed.Len(), d.Len())
	}
	orig, back := d.Edges(), parsed.Edges()
	for j := range orig {
		o, b := orig[j], back[j]
		if o.Kind != b.Kind || o.Style.Stroke != b.Style.Stroke || o.Style.Arrow != b.Style.Arrow || o.Style.Color != b.Style.Color {
			t.Errorf("edge %d: got %v %+v, want %v %+v", j, b.Kind, b.Style, o.Kind, o.Style)
		}
		if math.Abs(o.Style.Width-b.Style.Width) > 0.011 {
			t.Errorf("edge %d width = %v, want %v", j, b.Style.Width, o.Style.Width)
		}
		if o.Start.Dist(b.Start) > 0.15 || o.End.Dist(b.End) > 0.15 {
			t.Errorf("edge %d endpoints %v-%v, want %v-%v", j, b.Start, b.End, o.Start, o.End)
		}
	}
	for _, pl := range parsed.Labels() {
		if pl.IsBound() {
			t.Error("bindings must not survive a round trip")
		}
		want := d.ResolveLabelPosition(l)
		if pl.Pos.Dist(want) > 0.15 {
			t.Errorf("label at %v, want resolved position %v", pl.Pos, want)
		}
		if pl.Text != `\bar{q}` {
			t.Errorf("label text = %q", pl.Text)
		}
	}
}

func TestParseAssignsIDsInDocumentOrder(t *testing.T) {
	src := `\begin{tikzpicture}
  \node at (0, 0) {$a$};
  \fill (1, 1) circle (0.1);

  % a comment
  \draw[line width=1pt] (0, 0) -- (1, 0);
\end{tikzpicture}`
	d, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Label(1); !ok {
		t.Error("first statement should get id 1")
	}
	if _, ok := d.Point(2); !ok {
		t.Error("second statement should get id 2")
	}
	e, ok := d.Edge(3)
	if !ok {
		t.Fatal("third statement should get id 3")
	}
	if d.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", d.NextID())
	}
	if e.Style.Width != 2 || e.Style.Color != diagram.Black || e.Style.Stroke != stroke.Solid {
		t.Errorf("defaults not applied: %+v", e.Style)
	}
	p, _ := d.Point(2)
	if p.Pos != geom.Pt(20, -20) || p.Radius != 2 {
		t.Errorf("point = %+v", p)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attrs string
		want  diagram.Style
	}{
		{"dashed", "dashed", styleOf(stroke.Dashed, diagram.Black, 2, stroke.ArrowNone)},
		{"snake", "decorate, decoration={snake, segment length=10pt, amplitude=2pt}", styleOf(stroke.Wavy, diagram.Black, 2, stroke.ArrowNone)},
		{"coil", "decorate, decoration={coil}", styleOf(stroke.Spring, diagram.Black, 2, stroke.ArrowNone)},
		{"plain tikz arrow", "->", styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowForward)},
		{"reverse", "<-", styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowBackward)},
		{"both", "{Stealth}-{Stealth}", styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowBoth)},
		{"color and width", "draw={rgb,255:red,12;green,34;blue,56}, line width=0.75pt", styleOf(stroke.Solid, diagram.Color{R: 12, G: 34, B: 56}, 1.5, stroke.ArrowNone)},
		{"spaced color", "draw={rgb,255: red,1; green,2; blue,3}", styleOf(stroke.Solid, diagram.Color{R: 1, G: 2, B: 3}, 2, stroke.ArrowNone)},
		{"postaction without comment", arrowAttrs[stroke.ArrowMidForward], styleOf(stroke.Solid, diagram.Black, 2, stroke.ArrowNone)},
		{"trailing comma", "dotted,", styleOf(stroke.Dotted, diagram.Black, 2, stroke.ArrowNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(`\draw[` + tt.attrs + `] (0, 0) -- (1, 1);`)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			e, _ := d.Edge(1)
			if e.Style != tt.want {
				t.Errorf("style = %+v, want %+v", e.Style, tt.want)
			}
		})
	}
}

func TestParseArrowComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want stroke.Arrow
	}{
		{"mid forward", `\draw[-{Stealth}] (0, 0) -- (5, 0); % edge-arrow: mid-forward`, stroke.ArrowMidForward},
		{"overrides native", `\draw[->] (0, 0) -- (5, 0); % edge-arrow: mid-backward`, stroke.ArrowMidBackward},
		{"can clear", `\draw[->] (0, 0) -- (5, 0); %edge-arrow:none`, stroke.ArrowNone},
		{"unknown name falls back", `\draw[<-] (0, 0) -- (5, 0); % edge-arrow: sideways`, stroke.ArrowBackward},
		{"unrelated comment", `\draw[<->] (0, 0) -- (5, 0); % photon`, stroke.ArrowBoth},
		{"stripped comment", `\draw[` + arrowAttrs[stroke.ArrowMidCross] + `] (0, 0) -- (5, 0);`, stroke.ArrowNone},
		{"curve", `\draw[] (0, 0) .. controls (1, 1) .. (5, 0); % edge-arrow: mid-cross`, stroke.ArrowMidCross},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			e, _ := d.Edge(1)
			if e.Style.Arrow != tt.want {
				t.Errorf("arrow = %v, want %v", e.Style.Arrow, tt.want)
			}
		})
	}
}

func TestParseShapes(t *testing.T) {
	d, err := Parse(`
\draw[fill=gray!20, draw={rgb,255:red,0;green,0;blue,255}, line width=0.5pt] (1, -1) ellipse (2 and 0.5);
\draw[dashed] (0, 0) .. controls (1.5, 2) .. (3, 0);
\node at (-1, 2) {{$\mu^+$}};
`)
	if err != nil {
		t.Fatal(err)
	}
	el, ok := d.Ellipse(1)
	if !ok {
		t.Fatal("ellipse missing")
	}
	if el.Center != geom.Pt(20, 20) || el.RX != 40 || el.RY != 10 || el.Width != 1 || el.Color != (diagram.Color{B: 255}) {
		t.Errorf("ellipse = %+v", el)
	}
	e, _ := d.Edge(2)
	if e.Kind != diagram.Curve || e.Control == nil || *e.Control != geom.Pt(30, -40) {
		t.Errorf("curve = %+v", e)
	}
	l, _ := d.Label(3)
	if l.Pos != geom.Pt(-20, -40) || l.Text != `{$\mu^+$}` {
		t.Errorf("label = %+v", l)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unknown command", `\path (0, 0) -- (1, 1);`, 1},
		{"free text", "hello world", 1},
		{"missing semicolon", `\fill (0, 0) circle (1)`, 1},
		{"trailing garbage", `\fill (0, 0) circle (1); x`, 1},
		{"missing options", `\draw (0, 0) -- (1, 1);`, 1},
		{"unknown option", `\draw[red] (0, 0) -- (1, 1);`, 1},
		{"named color", `\draw[draw=black] (0, 0) -- (1, 1);`, 1},
		{"conflicting strokes", `\draw[dashed, dotted] (0, 0) -- (1, 1);`, 1},
		{"unknown decoration", `\draw[decorate, decoration={zigzag}] (0, 0) -- (1, 1);`, 1},
		{"nan", `\fill (NaN, 0) circle (1);`, 1},
		{"overflow", `\fill (1e400, 0) circle (1);`, 1},
		{"overflow after scaling", `\fill (1e308, 0) circle (1);`, 1},
		{"zero radius", `\fill (0, 0) circle (0);`, 1},
		{"zero width", `\draw[line width=0pt] (0, 0) -- (1, 1);`, 1},
		{"tiny ellipse", `\draw[] (0, 0) ellipse (0.01 and 1);`, 1},
		{"three coordinates", `\draw[] (0, 0, 1) -- (1, 1);`, 1},
		{"unclosed group", `\node at (0, 0) {$x$;`, 1},
		{"other environment", `\begin{figure}`, 1},
		{"second line bad", "\\fill (0, 0) circle (1);\n\\fill (0, 0) circle;", 2},
		{"color channel overflow", `\draw[draw={rgb,255:red,256;green,0;blue,0}] (0, 0) -- (1, 1);`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse() succeeded, want failure")
			}
			if d != nil {
				t.Error("Parse() returned a diagram alongside an error")
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeParse)
			}
			if got := errors.LineOf(err); got != tt.line {
				t.Errorf("line = %d, want %d (%v)", got, tt.line, err)
			}
		})
	}
}

func TestParseFailureLeavesLiveDiagram(t *testing.T) {
	live, err := Parse(`\fill (1, 1) circle (0.1);`)
	if err != nil {
		t.Fatal(err)
	}
	before := Serialize(live)

	apply := func(text string) error {
		d, err := Parse(text)
		if err != nil {
			return err
		}
		return live.ReplaceWith(d)
	}
	if err := apply("\\draw[->] (0, 0) -- (1, 0);\n\\draw[->] (0, 0) -- ;"); err == nil {
		t.Fatal("apply() succeeded on malformed text")
	}
	if after := Serialize(live); after != before {
		t.Errorf("live diagram changed after failed parse\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestCoordinateTransformInverse(t *testing.T) {
	pts := []geom.Point{
		geom.Pt(0, 0), geom.Pt(123.456, -78.9), geom.Pt(-0.001, 0.004),
		geom.Pt(1e6, -1e6), geom.Pt(19.99, 20.01),
	}
	for _, p := range pts {
		back := ToEditorSpace(ToTextUnits(p))
		if back.Dist(p) > 1e-6*math.Max(1, p.Len()) {
			t.Errorf("ToEditorSpace(ToTextUnits(%v)) = %v", p, back)
		}

		d := diagram.New()
		if _, err := d.CreatePoint(p, 1); err != nil {
			t.Fatal(err)
		}
		parsed, err := Parse(Serialize(d))
		if err != nil {
			t.Fatal(err)
		}
		got := parsed.Points()[0].Pos
		// Two decimals in text units is 0.005 * Scale in editor space.
		if math.Abs(got.X-p.X) > 0.1+1e-9 || math.Abs(got.Y-p.Y) > 0.1+1e-9 {
			t.Errorf("text round trip of %v = %v", p, got)
		}
	}
}

func TestNegativeZero(t *testing.T) {
	if got := formatCoord(geom.Pt(0, 0)); got != "(0.00, -0.00)" {
		t.Errorf("formatCoord(origin) = %q", got)
	}
}

func TestWriteReadFile(t *testing.T) {
	d := diagram.New()
	if _, err := d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), nil, diagram.DefaultStyle()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "diagram.tex")
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := Serialize(back), Serialize(d); got != want {
		t.Errorf("file round trip:\n%s\nwant:\n%s", got, want)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.tex"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
