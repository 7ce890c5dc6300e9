package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

func mustEdge(t *testing.T, d *diagram.Diagram, a, b geom.Point, ctl *geom.Point, k stroke.Kind, arrow stroke.Arrow) *diagram.Edge {
	t.Helper()
	st := diagram.DefaultStyle()
	st.Stroke = k
	st.Arrow = arrow
	e, err := d.CreateEdge(a, b, ctl, st)
	if err != nil {
		t.Fatalf("CreateEdge() error: %v", err)
	}
	return e
}

func sampleDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	if _, err := d.CreatePoint(geom.Pt(0, 0), 0); err != nil {
		t.Fatal(err)
	}
	mustEdge(t, d, geom.Pt(0, 0), geom.Pt(100, 0), nil, stroke.Dashed, stroke.ArrowForward)
	ctl := geom.Pt(50, 60)
	e := mustEdge(t, d, geom.Pt(0, 0), geom.Pt(100, 0), &ctl, stroke.Wavy, stroke.ArrowMidCross)
	if _, err := d.CreateEllipse(geom.Pt(50, 100), 20, 10, diagram.Black, 1); err != nil {
		t.Fatal(err)
	}
	l, err := d.CreateLabel(geom.Pt(50, 40), `a<b`)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Bind(l.ID, e.ID, diagram.AnchorMid); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBuildScene(t *testing.T) {
	s := BuildScene(sampleDiagram(t))

	if len(s.Dots) != 1 || len(s.Strokes) != 2 || len(s.Ellipses) != 1 || len(s.Texts) != 1 {
		t.Fatalf("scene counts = %d dots, %d strokes, %d ellipses, %d texts",
			len(s.Dots), len(s.Strokes), len(s.Ellipses), len(s.Texts))
	}
	if len(s.Marks) != 2 {
		t.Fatalf("got %d marks, want 2", len(s.Marks))
	}
	if s.Marks[0].Kind != stroke.MarkerArrowhead || s.Marks[1].Kind != stroke.MarkerCross {
		t.Errorf("mark kinds = %v, %v", s.Marks[0].Kind, s.Marks[1].Kind)
	}
	if got := s.Strokes[0].Dash; len(got) != 2 {
		t.Errorf("dashed stroke dash = %v", got)
	}
	if s.Strokes[1].Dash != nil {
		t.Errorf("wavy stroke dash = %v, want nil", s.Strokes[1].Dash)
	}

	inside := func(p geom.Point) bool {
		return p.X >= s.Bounds.Min.X && p.X <= s.Bounds.Max.X && p.Y >= s.Bounds.Min.Y && p.Y <= s.Bounds.Max.Y
	}
	for _, st := range s.Strokes {
		for _, p := range st.Points {
			if !inside(p) {
				t.Fatalf("stroke point %v outside bounds %v", p, s.Bounds)
			}
		}
	}
	if !inside(geom.Pt(50, 110)) {
		t.Errorf("ellipse bottom outside bounds %v", s.Bounds)
	}
}

func TestBuildSceneEmpty(t *testing.T) {
	s := BuildScene(diagram.New(), WithPadding(5))
	want := geom.Bounds{Min: geom.Pt(-5, -5), Max: geom.Pt(5, 5)}
	if s.Bounds != want {
		t.Errorf("Bounds = %v, want %v", s.Bounds, want)
	}

	w, h := BuildScene(diagram.New(), WithPadding(0)).Size()
	if w != 1 || h != 1 {
		t.Errorf("Size() = %v x %v, want 1 x 1", w, h)
	}
}

func TestBuildSceneLabelFollowsBinding(t *testing.T) {
	d := sampleDiagram(t)
	s := BuildScene(d)
	l := d.Labels()[0]
	if want := d.ResolveLabelPosition(l); s.Texts[0].Pos != want {
		t.Errorf("label at %v, want %v", s.Texts[0].Pos, want)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleDiagram(t), WithBackground("#ffffff")))

	tests := []struct {
		name string
		want string
	}{
		{"root", `<svg xmlns="http://www.w3.org/2000/svg"`},
		{"background", `fill="#ffffff"/>`},
		{"dashed edge", `<polyline id="edge-2" class="dashed"`},
		{"dash array", `stroke-dasharray="8 6"`},
		{"wavy edge", `<polyline id="edge-3" class="wavy"`},
		{"arrowhead", `<polygon class="marker" data-edge="2"`},
		{"cross", `<line class="marker" data-edge="3"`},
		{"ellipse fill", `fill="#e5e5e5" stroke="#000000" stroke-width="1.00"`},
		{"point", `<circle id="point-1" cx="0.00" cy="0.00" r="3.00"`},
		{"escaped label", `>a&lt;b</text>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(svg, tt.want) {
				t.Errorf("SVG missing %q", tt.want)
			}
		})
	}

	if n := strings.Count(svg, `<line class="marker"`); n != 2 {
		t.Errorf("cross has %d ticks, want 2", n)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGViewBox(t *testing.T) {
	d := diagram.New()
	mustEdge(t, d, geom.Pt(0, 0), geom.Pt(100, 0), nil, stroke.Solid, stroke.ArrowNone)

	svg := string(RenderSVG(d, WithPadding(10)))
	want := `viewBox="-10.00 -10.00 120.00 20.00" width="120" height="20"`
	if !strings.Contains(svg, want) {
		t.Errorf("SVG header = %q, want %q", strings.SplitN(svg, "\n", 2)[0], want)
	}
	if strings.Contains(svg, "<rect") {
		t.Error("transparent render should not draw a background")
	}
}

func TestRenderPNG(t *testing.T) {
	d := diagram.New()
	mustEdge(t, d, geom.Pt(0, 0), geom.Pt(100, 0), nil, stroke.Solid, stroke.ArrowNone)

	data, err := RenderPNG(d, WithPadding(10), WithScale(2), WithBackground("#ffffff"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 40 {
		t.Fatalf("image size = %dx%d, want 240x40", b.Dx(), b.Dy())
	}

	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff || a>>8 != 0xff {
		t.Errorf("corner = %d,%d,%d,%d, want opaque white", r>>8, g>>8, b>>8, a>>8)
	}
	// Edge passes through y=0, which is pixel row 20.
	r, g, b, _ = img.At(120, 20).RGBA()
	if r>>8 > 0x40 || g>>8 > 0x40 || b>>8 > 0x40 {
		t.Errorf("line pixel = %d,%d,%d, want dark", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGErrors(t *testing.T) {
	t.Run("bad background", func(t *testing.T) {
		_, err := RenderPNG(diagram.New(), WithBackground("white"))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want INVALID_INPUT", err)
		}
	})
	t.Run("too large", func(t *testing.T) {
		d := diagram.New()
		mustEdge(t, d, geom.Pt(0, 0), geom.Pt(1e5, 1e5), nil, stroke.Solid, stroke.ArrowNone)
		_, err := RenderPNG(d)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want INVALID_INPUT", err)
		}
	})
	for _, far := range []geom.Point{geom.Pt(1e20, 0), geom.Pt(2e21, 2e21), geom.Pt(1e308, 1e308)} {
		t.Run("int overflow", func(t *testing.T) {
			d := diagram.New()
			for _, p := range []geom.Point{geom.Pt(0, 0), far} {
				if _, err := d.CreatePoint(p, 2); err != nil {
					t.Fatal(err)
				}
			}
			_, err := RenderPNG(d, WithScale(2))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleDiagram(t))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(out.Points) != 1 || len(out.Strokes) != 2 || len(out.Ellipses) != 1 || len(out.Labels) != 1 {
		t.Fatalf("counts = %d/%d/%d/%d", len(out.Points), len(out.Strokes), len(out.Ellipses), len(out.Labels))
	}
	if out.Strokes[1].Kind != "wavy" || len(out.Strokes[1].Points) < 3 {
		t.Errorf("wavy stroke = %+v", out.Strokes[1].Kind)
	}
	if len(out.Markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(out.Markers))
	}
	if m := out.Markers[1]; m.Kind != "cross" || len(m.Segments) != 2 || m.Polygon != nil {
		t.Errorf("cross marker = %+v", m)
	}
	if out.Ellipses[0].Fill != "#e5e5e5" {
		t.Errorf("ellipse fill = %q", out.Ellipses[0].Fill)
	}
	if out.Labels[0].Text != "a<b" {
		t.Errorf("label text = %q", out.Labels[0].Text)
	}
}

func TestRenderPDF(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(sampleDiagram(t))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
