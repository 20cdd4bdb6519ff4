package geom

import (
	"math"
	"testing"
)

func circleStroke(cx, cy, r float64, n int) Stroke {
	s := make(Stroke, n)
	for i := range s {
		a := 2 * math.Pi * float64(i) / float64(n)
		s[i] = Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return s
}

func TestCentroid(t *testing.T) {
	s := Stroke{Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(0, 2)}
	c := s.Centroid()
	if c.X != 1 || c.Y != 1 {
		t.Errorf("Centroid = %+v, want (1,1)", c)
	}

	if got := (Stroke{}).Centroid(); got != (Point{}) {
		t.Errorf("empty Centroid = %+v, want zero", got)
	}
}

func TestIsClosedAndRing(t *testing.T) {
	tests := []struct {
		name   string
		s      Stroke
		closed bool
		ring   int
	}{
		{"single point", Stroke{Pt(1, 1)}, false, 1},
		{"open", Stroke{Pt(0, 0), Pt(1, 0), Pt(1, 1)}, false, 3},
		{"closed", Stroke{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 0)}, true, 3},
		{"almost closed", Stroke{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(1e-9, 0)}, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsClosed(1e-6); got != tt.closed {
				t.Errorf("IsClosed = %v, want %v", got, tt.closed)
			}
			if got := len(tt.s.Ring(1e-6)); got != tt.ring {
				t.Errorf("len(Ring) = %d, want %d", got, tt.ring)
			}
		})
	}
}

func TestArcLength(t *testing.T) {
	s := Stroke{Pt(0, 0), Pt(3, 0), Pt(3, 4)}
	if got := s.ArcLength(false); got != 7 {
		t.Errorf("open ArcLength = %v, want 7", got)
	}
	if got := s.ArcLength(true); got != 12 {
		t.Errorf("closed ArcLength = %v, want 12", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Stroke{Pt(1, 2)}).IsFinite() {
		t.Error("finite stroke reported non-finite")
	}
	if (Stroke{Pt(1, 2), Pt(math.NaN(), 0)}).IsFinite() {
		t.Error("NaN not detected")
	}
	if (Stroke{Pt(math.Inf(1), 0)}).IsFinite() {
		t.Error("Inf not detected")
	}
}

func TestPerpendicularDistance(t *testing.T) {
	if d := PerpendicularDistance(Pt(5, 3), Pt(0, 0), Pt(10, 0)); d != 3 {
		t.Errorf("distance = %v, want 3", d)
	}
	if d := PerpendicularDistance(Pt(3, 4), Pt(0, 0), Pt(0, 0)); d != 5 {
		t.Errorf("degenerate distance = %v, want 5", d)
	}
}

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Pt(0, 0), Pt(1, 0), Pt(5, -1), Pt(5, 1))
	if !ok {
		t.Fatal("expected intersection")
	}
	if math.Abs(p.X-5) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Errorf("intersection = %+v, want (5,0)", p)
	}

	if _, ok := LineIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 1), Pt(1, 1)); ok {
		t.Error("parallel lines should not intersect")
	}
}

func TestPointAlong(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	tests := []struct {
		f    float64
		want Point
	}{
		{0, Pt(0, 0)},
		{0.25, Pt(5, 0)},
		{0.75, Pt(10, 5)},
		{1, Pt(10, 10)},
	}
	for _, tt := range tests {
		got := PointAlong(pts, tt.f)
		if got.Distance(tt.want) > 1e-9 {
			t.Errorf("PointAlong(%v) = %+v, want %+v", tt.f, got, tt.want)
		}
	}
}

func TestSimplifyOpen(t *testing.T) {
	// collinear middle points vanish, the corner survives
	path := []Point{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), Pt(3, 1), Pt(3, 2)}
	got := SimplifyIndices(path, 0.1)
	want := []int{0, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("SimplifyIndices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSimplifyClosedRectangle(t *testing.T) {
	var ring []Point
	for x := 0.0; x < 100; x += 5 {
		ring = append(ring, Pt(x, 0))
	}
	for y := 0.0; y < 50; y += 5 {
		ring = append(ring, Pt(100, y))
	}
	for x := 100.0; x > 0; x -= 5 {
		ring = append(ring, Pt(x, 50))
	}
	for y := 50.0; y > 0; y -= 5 {
		ring = append(ring, Pt(0, y))
	}

	got := SimplifyClosedIndices(ring, 0.02*Stroke(ring).ArcLength(true))
	if len(got) != 4 {
		t.Fatalf("SimplifyClosedIndices kept %d vertices, want 4: %v", len(got), got)
	}
	corners := map[Point]bool{Pt(0, 0): true, Pt(100, 0): true, Pt(100, 50): true, Pt(0, 50): true}
	for _, i := range got {
		if p := ring[i]; !corners[p] {
			t.Errorf("unexpected vertex %+v", p)
		}
	}
}

func TestSimplifyClosedIndicesAscending(t *testing.T) {
	ring := circleStroke(0, 0, 100, 64)
	idx := SimplifyClosedIndices(ring, 2)
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			t.Fatalf("indices not ascending: %v", idx)
		}
	}
	if len(idx) < 8 {
		t.Errorf("kept %d vertices of a 64-gon at epsilon 2, want at least 8", len(idx))
	}
}

func TestIndexNearest(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(0, 10), Pt(10, 10)}
	ix := NewIndex(pts)

	i, d := ix.Nearest(Pt(9, 1))
	if i != 1 {
		t.Errorf("Nearest index = %d, want 1", i)
	}
	if math.Abs(d-math.Sqrt2) > 1e-12 {
		t.Errorf("Nearest distance = %v, want sqrt(2)", d)
	}

	empty := NewIndex(nil)
	if i, d := empty.Nearest(Pt(0, 0)); i != -1 || !math.IsInf(d, 1) {
		t.Errorf("empty Nearest = %d, %v", i, d)
	}
}

func TestHausdorff(t *testing.T) {
	a := []Point{Pt(0, 0), Pt(1, 0)}
	b := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 3)}
	if got := Hausdorff(a, b); math.Abs(got-3) > 1e-12 {
		t.Errorf("Hausdorff = %v, want 3", got)
	}
	if got := Hausdorff(a, a); got != 0 {
		t.Errorf("Hausdorff(a, a) = %v, want 0", got)
	}
}

func TestDrawingHelpers(t *testing.T) {
	d := Drawing{Paths: []Path{
		{ID: 3, SubPaths: []SubPath{
			{ID: 0, Stroke: Stroke{Pt(0, 0), Pt(4, 0)}},
			{ID: 1, Stroke: Stroke{Pt(1, 1), Pt(2, 2), Pt(3, 1)}},
		}},
		{ID: 7, SubPaths: []SubPath{
			{ID: 0, Stroke: Stroke{Pt(-1, 5)}},
		}},
	}}

	if got := d.NumStrokes(); got != 3 {
		t.Errorf("NumStrokes = %d, want 3", got)
	}
	if got := d.NumPoints(); got != 6 {
		t.Errorf("NumPoints = %d, want 6", got)
	}

	b := d.Bounds()
	if b.Min != Pt(-1, 0) || b.Max != Pt(4, 5) {
		t.Errorf("Bounds = %+v", b)
	}

	refs := d.Refs()
	if refs[1].PathID != 3 || refs[1].SubPathID != 1 || refs[2].PathIndex != 1 {
		t.Errorf("Refs out of order: %+v", refs)
	}

	shifted := d.Map(func(ref StrokeRef) Stroke {
		out := ref.Stroke.Clone()
		for i := range out {
			out[i].X += 10
		}
		return out
	})
	if shifted.Paths[1].ID != 7 || shifted.Paths[0].SubPaths[0].Stroke[1].X != 14 {
		t.Errorf("Map result = %+v", shifted)
	}
	if d.Paths[0].SubPaths[0].Stroke[1].X != 4 {
		t.Error("Map modified its input")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp int")
	}
	if Clamp(0.5, 0.0, 1.0) != 0.5 {
		t.Error("Clamp float")
	}
}
