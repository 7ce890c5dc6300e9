package geom

import (
	"math"
	"testing"
)

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestEvaluateCubicEndpoints(t *testing.T) {
	p0, c, p3 := Pt(0, 0), Pt(50, -40), Pt(100, 0)

	if got := EvaluateCubic(p0, c, c, p3, 0); got != p0 {
		t.Errorf("t=0: got %v, want %v", got, p0)
	}
	if got := EvaluateCubic(p0, c, c, p3, 1); got != p3 {
		t.Errorf("t=1: got %v, want %v", got, p3)
	}
	// Symmetric control: midpoint x is centered, y is 3/4 of the control offset.
	if got := EvaluateCubic(p0, c, c, p3, 0.5); !near(got, Pt(50, -30)) {
		t.Errorf("t=0.5: got %v, want (50,-30)", got)
	}
}

func TestTangentCubic(t *testing.T) {
	tests := []struct {
		name           string
		p0, p1, p2, p3 Point
		t              float64
		want           Point
	}{
		{"straight line", Pt(0, 0), Pt(0, 0), Pt(10, 0), Pt(10, 0), 0.5, Pt(15, 0)},
		{"start direction", Pt(0, 0), Pt(10, 10), Pt(10, 10), Pt(20, 0), 0, Pt(30, 30)},
		{"end direction", Pt(0, 0), Pt(10, 10), Pt(10, 10), Pt(20, 0), 1, Pt(30, -30)},
		{"degenerate", Pt(5, 5), Pt(5, 5), Pt(5, 5), Pt(5, 5), 0.3, Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TangentCubic(tt.p0, tt.p1, tt.p2, tt.p3, tt.t)
			if !near(got, tt.want) {
				t.Errorf("TangentCubic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnit(t *testing.T) {
	u, ok := Pt(3, 4).Unit()
	if !ok || !near(u, Pt(0.6, 0.8)) {
		t.Errorf("Unit() = %v, %v", u, ok)
	}
	if _, ok := Pt(0, 1e-12).Unit(); ok {
		t.Error("Unit() of near-zero vector should report false")
	}
}

func TestPerp(t *testing.T) {
	if got := Pt(1, 0).Perp(); got != Pt(0, 1) {
		t.Errorf("Perp() = %v, want (0,1)", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !Pt(1, 2).IsFinite() {
		t.Error("finite point reported non-finite")
	}
	if Pt(math.NaN(), 0).IsFinite() || Pt(0, math.Inf(-1)).IsFinite() {
		t.Error("non-finite point reported finite")
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatal("EmptyBounds() should be empty")
	}
	b = b.Extend(Pt(10, -5)).Extend(Pt(-2, 7))
	if b.Min != Pt(-2, -5) || b.Max != Pt(10, 7) {
		t.Errorf("bounds = %+v", b)
	}
	p := b.Pad(1)
	if p.Width() != 14 || p.Height() != 14 {
		t.Errorf("padded size = %v x %v, want 14 x 14", p.Width(), p.Height())
	}
}
