package symmetry

import (
	"math"
	"testing"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

func TestDetectUnitSquare(t *testing.T) {
	square := geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1), geom.Pt(0, 1)}
	res := Detect(square, config.Default())

	for _, k := range Kinds() {
		if !res.Has(k) {
			t.Errorf("unit square missing %s axis", k)
		}
	}
	if len(res.Axes) != 4 {
		t.Errorf("got %d axes, want 4", len(res.Axes))
	}
	if res.Centroid != geom.Pt(0.5, 0.5) {
		t.Errorf("centroid = %+v", res.Centroid)
	}
}

func TestDetectRectangle(t *testing.T) {
	// a 4x2 rectangle has no diagonal symmetry
	rect := geom.Stroke{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 2), geom.Pt(0, 2), geom.Pt(0, 0)}
	res := Detect(rect, config.Default())

	tests := []struct {
		kind Kind
		want bool
	}{
		{Vertical, true},
		{Horizontal, true},
		{Diagonal45, false},
		{Diagonal135, false},
	}
	for _, tt := range tests {
		if got := res.Has(tt.kind); got != tt.want {
			t.Errorf("Has(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}

	var vertical Axis
	for _, a := range res.Axes {
		if a.Kind == Vertical {
			vertical = a
		}
	}
	if vertical.X() != 2 {
		t.Errorf("vertical axis at x=%v, want 2", vertical.X())
	}
}

func TestDetectAsymmetric(t *testing.T) {
	s := geom.Stroke{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(3, 7)}
	res := Detect(s, config.Default())
	if len(res.Axes) != 0 {
		t.Errorf("scalene triangle reported axes %+v", res.Axes)
	}
}

func TestDetectTooFewPoints(t *testing.T) {
	tests := []struct {
		name string
		s    geom.Stroke
	}{
		{"empty", nil},
		{"one", geom.Stroke{geom.Pt(1, 1)}},
		{"two", geom.Stroke{geom.Pt(1, 1), geom.Pt(2, 2)}},
		{"nan", geom.Stroke{geom.Pt(0, 0), geom.Pt(math.NaN(), 1), geom.Pt(2, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Detect(tt.s, config.Default())
			if res.Axes == nil || len(res.Axes) != 0 {
				t.Errorf("expected empty non-nil axes, got %+v", res.Axes)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	c := geom.Pt(1, 2)
	p := geom.Pt(4, 3)
	tests := []struct {
		kind Kind
		want geom.Point
	}{
		{Vertical, geom.Pt(-2, 3)},
		{Horizontal, geom.Pt(4, 1)},
		{Diagonal45, geom.Pt(2, 5)},
		{Diagonal135, geom.Pt(0, -1)},
	}
	for _, tt := range tests {
		axis := Axis{Kind: tt.kind, Center: c}
		if got := axis.Reflect(p); got != tt.want {
			t.Errorf("%s Reflect = %+v, want %+v", tt.kind, got, tt.want)
		}

		// the line form must agree with the closed form
		got := axis.Line().Reflect(p)
		if got.Distance(tt.want) > 1e-9 {
			t.Errorf("%s Line().Reflect = %+v, want %+v", tt.kind, got, tt.want)
		}

		// reflecting twice is the identity
		if back := axis.Reflect(axis.Reflect(p)); back != p {
			t.Errorf("%s double reflection = %+v", tt.kind, back)
		}
	}
}

func TestPairs(t *testing.T) {
	square := geom.Stroke{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2), geom.Pt(0, 2)}

	res := Pairs(square, Line{Point: geom.Pt(1, 1), Angle: math.Pi / 2})
	if len(res.Pairs) != 4 {
		t.Fatalf("got %d pairs, want 4", len(res.Pairs))
	}
	if res.Max > 1e-9 || res.RMS > 1e-9 {
		t.Errorf("perfect mirror reported RMS=%v Max=%v", res.RMS, res.Max)
	}
	want := map[int]int{0: 1, 1: 0, 2: 3, 3: 2}
	for _, p := range res.Pairs {
		if want[p.From] != p.To {
			t.Errorf("pair %d -> %d, want %d", p.From, p.To, want[p.From])
		}
	}

	// an axis that does not mirror the square leaves a mismatch
	skew := Pairs(square, Line{Point: geom.Pt(0.5, 1), Angle: math.Pi / 2})
	if skew.Max < 0.5 {
		t.Errorf("offset axis reported Max=%v", skew.Max)
	}

	if empty := Pairs(nil, Line{}); len(empty.Pairs) != 0 {
		t.Error("empty stroke produced pairs")
	}
}

func TestBestAxis(t *testing.T) {
	// isosceles triangle, symmetric about x = 0
	tri := geom.Stroke{geom.Pt(-3, 0), geom.Pt(3, 0), geom.Pt(0, 8)}
	best := BestAxis(tri, 180)
	if math.Abs(best.Axis.Angle-math.Pi/2) > 1e-9 {
		t.Errorf("best angle = %v, want pi/2", best.Axis.Angle)
	}
	if best.RMS > 1e-9 {
		t.Errorf("best RMS = %v", best.RMS)
	}
}
