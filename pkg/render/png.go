package render

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
)

// MaxPixels bounds the raster size of [RenderPNG].
const MaxPixels = 1 << 26

// RenderPNG rasterizes the diagram natively. Labels use the built-in bitmap
// face, so the font size option does not apply.
func RenderPNG(d *diagram.Diagram, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	s := buildScene(d, o)

	w, h := s.Size()
	fw, fh := math.Ceil(w*o.scale), math.Ceil(h*o.scale)
	// Checked in float64 before the int conversion, which would overflow.
	if !geom.Pt(fw, fh).IsFinite() || fw*fh > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas %.0fx%.0f exceeds %d pixels", fw, fh, MaxPixels)
	}
	pw, ph := int(fw), int(fh)

	dc := gg.NewContext(pw, ph)
	if o.background != "" {
		bg, err := diagram.ParseHexColor(o.background)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "background")
		}
		setColor(dc, bg)
		dc.Clear()
	}

	// Line widths and dashes are in device pixels; only path geometry
	// goes through the transform.
	dc.Scale(o.scale, o.scale)
	dc.Translate(-s.Bounds.Min.X, -s.Bounds.Min.Y)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	for _, e := range s.Ellipses {
		dc.DrawEllipse(e.Center.X, e.Center.Y, e.RX, e.RY)
		setColor(dc, EllipseFill)
		dc.FillPreserve()
		setColor(dc, e.Color)
		dc.SetLineWidth(e.Width * o.scale)
		dc.Stroke()
	}

	for _, st := range s.Strokes {
		dc.SetDash(scaled(st.Dash, o.scale)...)
		drawPolyline(dc, st.Points)
		setColor(dc, st.Color)
		dc.SetLineWidth(st.Width * o.scale)
		dc.Stroke()
	}
	dc.SetDash()

	for _, m := range s.Marks {
		setColor(dc, m.Color)
		if m.Polygon != nil {
			drawPolyline(dc, m.Polygon)
			dc.ClosePath()
			dc.Fill()
		}
		for _, seg := range m.Segments {
			dc.DrawLine(seg[0].X, seg[0].Y, seg[1].X, seg[1].Y)
			dc.SetLineWidth(m.Width * o.scale)
			dc.Stroke()
		}
	}

	dc.SetRGB255(0, 0, 0)
	for _, p := range s.Dots {
		dc.DrawCircle(p.Center.X, p.Center.Y, p.Radius)
		dc.Fill()
	}
	for _, t := range s.Texts {
		dc.DrawStringAnchored(t.Text, t.Pos.X, t.Pos.Y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func setColor(dc *gg.Context, c diagram.Color) {
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}

func drawPolyline(dc *gg.Context, pts []geom.Point) {
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
}

func scaled(vs []float64, k float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v * k
	}
	return out
}
