package regularize

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

func circle(r float64, n int, closed bool) geom.Stroke {
	s := make(geom.Stroke, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		s = append(s, geom.Pt(r*math.Cos(a), r*math.Sin(a)))
	}
	if closed {
		s = append(s, s[0])
	}
	return s
}

func TestRegularizeClosure(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name string
		s    geom.Stroke
	}{
		{"four points", geom.Stroke{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 5), geom.Pt(0, 5)}},
		{"closed square", geom.Stroke{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10), geom.Pt(0, 0)}},
		{"sparse circle", circle(50, 7, false)},
		{"open arc", geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 2), geom.Pt(3, 3), geom.Pt(6, 2), geom.Pt(8, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Regularize(tt.s, cfg)
			if !res.Changed() {
				t.Fatalf("status = %s (%s: %s)", res.Status, res.Reason, res.Message)
			}
			if len(res.Curve) != cfg.SplineSampleCount {
				t.Errorf("len = %d, want %d", len(res.Curve), cfg.SplineSampleCount)
			}
			first, last := res.Curve[0], res.Curve[len(res.Curve)-1]
			if first.Distance(last) > 1e-9 {
				t.Errorf("curve not closed: first %+v, last %+v", first, last)
			}
			if first.Distance(tt.s[0]) > 1e-9 {
				t.Errorf("curve does not start at first knot: %+v", first)
			}
		})
	}
}

func TestRegularizeClosure_RandomStrokes(t *testing.T) {
	cfg := config.Default()
	cfg.SplineSampleCount = 100
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		n := MinPoints + rng.Intn(40)
		s := make(geom.Stroke, n)
		for j := range s {
			s[j] = geom.Pt(rng.Float64()*200-100, rng.Float64()*200-100)
		}

		res := Regularize(s, cfg)
		if !res.Changed() {
			// only a failed fit may decline, and then the input comes back as is
			if res.Reason != ReasonFitFailed || len(res.Curve) != n {
				t.Fatalf("stroke %d (%d points): %s/%s", i, n, res.Status, res.Reason)
			}
			continue
		}
		if len(res.Curve) != cfg.SplineSampleCount {
			t.Fatalf("stroke %d: len = %d, want %d", i, len(res.Curve), cfg.SplineSampleCount)
		}
		first, last := res.Curve[0], res.Curve[len(res.Curve)-1]
		if first.Distance(last) > 1e-6 {
			t.Fatalf("stroke %d not closed: first %+v, last %+v", i, first, last)
		}
	}
}

func TestRegularizeDenseCircle(t *testing.T) {
	cfg := config.Default()
	input := circle(100, 360, true)

	res := Regularize(input, cfg)
	if !res.Changed() {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}

	truth := circle(100, 3600, false)
	if d := Hausdorff(res.Curve, truth); d > 0.5 {
		t.Errorf("Hausdorff to true circle = %v, want <= 0.5", d)
	}

	// the resampled curve stays on the circle
	for i, p := range res.Curve {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-100) > 0.01 {
			t.Fatalf("sample %d at radius %v", i, r)
		}
	}

	// regularizing again changes nothing visible
	again := Regularize(res.Curve, cfg)
	if !again.Changed() {
		t.Fatalf("second pass status = %s (%s)", again.Status, again.Reason)
	}
	if d := Hausdorff(res.Curve, again.Curve); d > 0.5 {
		t.Errorf("second pass moved the curve by %v", d)
	}
}

func TestRegularizePassesThroughKnots(t *testing.T) {
	cfg := config.Default()
	knots := geom.Stroke{geom.Pt(0, 0), geom.Pt(40, 5), geom.Pt(60, 40), geom.Pt(10, 50), geom.Pt(-20, 20)}
	res := Regularize(knots, cfg)
	if !res.Changed() {
		t.Fatalf("status = %s", res.Status)
	}
	for i, k := range knots {
		if d := Hausdorff(geom.Stroke{k}, res.Curve); d > 0.2 {
			t.Errorf("knot %d is %v from the curve", i, d)
		}
	}
}

func TestRegularizeOpenMode(t *testing.T) {
	cfg := config.Default()
	cfg.SplinePeriodic = false
	cfg.SplineParameterization = config.ParamIndex
	cfg.SplineSampleCount = 100

	s := geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 0), geom.Pt(3, 1), geom.Pt(4, 0)}
	res := Regularize(s, cfg)
	if !res.Changed() {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	if len(res.Curve) != 100 {
		t.Fatalf("len = %d, want 100", len(res.Curve))
	}
	if res.Curve[0].Distance(s[0]) > 1e-9 || res.Curve[99].Distance(s[4]) > 1e-9 {
		t.Errorf("open curve endpoints %+v, %+v", res.Curve[0], res.Curve[99])
	}

	// a straight line stays straight
	line := geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 2), geom.Pt(2, 4), geom.Pt(3, 6)}
	res = Regularize(line, cfg)
	for _, p := range res.Curve {
		if math.Abs(p.Y-2*p.X) > 1e-9 {
			t.Fatalf("point %+v left the line", p)
		}
	}
}

func TestRegularizeFallbacks(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name   string
		s      geom.Stroke
		reason Reason
	}{
		{"empty", geom.Stroke{}, ReasonTooFewPoints},
		{"three points", geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 1)}, ReasonTooFewPoints},
		{"nan", geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(math.NaN(), 1), geom.Pt(0, 1)}, ReasonNonNumeric},
		{"inf", geom.Stroke{geom.Pt(0, 0), geom.Pt(math.Inf(1), 0), geom.Pt(1, 1), geom.Pt(0, 1)}, ReasonNonNumeric},
		{"repeated point", geom.Stroke{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 0), geom.Pt(0, 1)}, ReasonFitFailed},
		{"all identical", geom.Stroke{geom.Pt(2, 2), geom.Pt(2, 2), geom.Pt(2, 2), geom.Pt(2, 2)}, ReasonFitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Regularize(tt.s, cfg)
			if res.Changed() {
				t.Fatal("expected unchanged result")
			}
			if res.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", res.Reason, tt.reason)
			}
			if len(res.Curve) != len(tt.s) {
				t.Fatalf("curve length %d, want %d", len(res.Curve), len(tt.s))
			}
			for i := range tt.s {
				same := res.Curve[i] == tt.s[i] ||
					(math.IsNaN(tt.s[i].X) && math.IsNaN(res.Curve[i].X))
				if !same {
					t.Errorf("point %d changed: %+v", i, res.Curve[i])
				}
			}
		})
	}
}

func TestRegularizeRows(t *testing.T) {
	cfg := config.Default()
	cfg.SplineSampleCount = 50

	square := [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	res := RegularizeRows(square, cfg)
	if res.Status != StatusRegularized {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	if len(res.Rows) != 50 || len(res.Rows[0]) != 2 {
		t.Errorf("got %d rows of width %d", len(res.Rows), len(res.Rows[0]))
	}

	tests := []struct {
		name   string
		rows   [][]float64
		reason Reason
	}{
		{"too few", [][]float64{{0, 0}, {1, 1}}, ReasonTooFewPoints},
		{"three columns", [][]float64{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, ReasonWrongDimensionality},
		{"one column", [][]float64{{0}, {1}, {2}, {3}}, ReasonWrongDimensionality},
		{"nan", [][]float64{{0, 0}, {1, math.NaN()}, {1, 1}, {0, 1}}, ReasonNonNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RegularizeRows(tt.rows, cfg)
			if res.Status != StatusUnchanged || res.Reason != tt.reason {
				t.Errorf("got %s/%s, want unchanged/%s", res.Status, res.Reason, tt.reason)
			}
			if len(res.Rows) != len(tt.rows) {
				t.Errorf("rows changed length: %d", len(res.Rows))
			}
		})
	}
}

func TestSolveCyclicMatchesDense(t *testing.T) {
	// 4x4 cyclic system with known solution x = (1, 2, 3, 4)
	sub := []float64{1, 1, 1, 1}
	diag := []float64{4, 4, 4, 4}
	sup := []float64{1, 1, 1, 1}
	alpha, beta := 1.0, 1.0
	want := []float64{1, 2, 3, 4}

	// rhs = A*want with corners A[3][0]=alpha, A[0][3]=beta
	rhs := []float64{
		4*1 + 1*2 + beta*4,
		1*1 + 4*2 + 1*3,
		1*2 + 4*3 + 1*4,
		alpha*1 + 1*3 + 4*4,
	}
	got, err := solveCyclic(sub, diag, sup, alpha, beta, rhs)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("x[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
