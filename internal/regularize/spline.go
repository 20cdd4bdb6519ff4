package regularize

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// spline is a cubic spline through knots y at parameters t, with second
// derivatives m at the knots. For a periodic spline y and m have one entry
// per knot and t has one extra entry closing the period.
type spline struct {
	t, y, m []float64
}

func (sp spline) knot(i int) (y, m float64) {
	if i == len(sp.y) {
		return sp.y[0], sp.m[0]
	}
	return sp.y[i], sp.m[i]
}

// eval evaluates the spline at u within segment i.
func (sp spline) eval(i int, u float64) float64 {
	t0, t1 := sp.t[i], sp.t[i+1]
	h := t1 - t0
	y0, m0 := sp.knot(i)
	y1, m1 := sp.knot(i + 1)
	a := t1 - u
	b := u - t0
	return m0*a*a*a/(6*h) + m1*b*b*b/(6*h) +
		(y0/h-m0*h/6)*a + (y1/h-m1*h/6)*b
}

// sample evaluates two coordinate splines sharing t on a uniform grid of n
// parameters spanning [t[0], t[last]].
func sample(xs, ys spline, n int) geom.Stroke {
	t := xs.t
	grid := floats.Span(make([]float64, n), t[0], t[len(t)-1])
	out := make(geom.Stroke, n)
	seg := 0
	for k, u := range grid {
		for seg < len(t)-2 && u > t[seg+1] {
			seg++
		}
		out[k] = geom.Pt(xs.eval(seg, u), ys.eval(seg, u))
	}
	return out
}

// knotParams returns the parameter of every knot plus, for closed loops,
// one trailing parameter for the return to the first knot.
func knotParams(pts geom.Stroke, closed bool, mode config.Parameterization) ([]float64, error) {
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	t := make([]float64, segs+1)
	for i := 0; i < segs; i++ {
		h := 1.0
		if mode == config.ParamChord {
			h = pts[i].Distance(pts[(i+1)%n])
		}
		if !(h > 0) {
			return nil, errCoincident
		}
		t[i+1] = t[i] + h
	}
	return t, nil
}

// fitPeriodic fits an interpolating periodic cubic spline and samples it
// uniformly over one period. A closing duplicate point is dropped first,
// since the period already returns to the first knot.
func fitPeriodic(s geom.Stroke, cfg config.Config) (geom.Stroke, error) {
	knots := s.Ring(cfg.CloseTol)
	if len(knots) < 3 {
		return nil, errTooFewKnots
	}

	t, err := knotParams(knots, true, cfg.SplineParameterization)
	if err != nil {
		return nil, err
	}
	xs, ys := knots.XY()

	mx, err := periodicMoments(t, xs)
	if err != nil {
		return nil, err
	}
	my, err := periodicMoments(t, ys)
	if err != nil {
		return nil, err
	}

	out := sample(
		spline{t: t, y: xs, m: mx},
		spline{t: t, y: ys, m: my},
		cfg.SplineSampleCount,
	)
	if !out.IsFinite() {
		return nil, errNonFiniteFit
	}
	return out, nil
}

// fitOpen fits a natural cubic spline (zero end curvature) through the
// stroke as given and samples it uniformly over the parameter range.
func fitOpen(s geom.Stroke, cfg config.Config) (geom.Stroke, error) {
	t, err := knotParams(s, false, cfg.SplineParameterization)
	if err != nil {
		return nil, err
	}
	xs, ys := s.XY()

	mx, err := naturalMoments(t, xs)
	if err != nil {
		return nil, err
	}
	my, err := naturalMoments(t, ys)
	if err != nil {
		return nil, err
	}

	out := sample(
		spline{t: t, y: xs, m: mx},
		spline{t: t, y: ys, m: my},
		cfg.SplineSampleCount,
	)
	if !out.IsFinite() {
		return nil, errNonFiniteFit
	}
	return out, nil
}

// periodicMoments solves the cyclic tridiagonal system for the second
// derivatives of a periodic spline:
//
//	h[i-1]*M[i-1] + 2(h[i-1]+h[i])*M[i] + h[i]*M[i+1] =
//	    6((y[i+1]-y[i])/h[i] - (y[i]-y[i-1])/h[i-1])
//
// with all indices taken modulo n.
func periodicMoments(t, y []float64) ([]float64, error) {
	n := len(y)
	h := make([]float64, n)
	for i := range h {
		h[i] = t[i+1] - t[i]
	}

	sub := make([]float64, n)
	diag := make([]float64, n)
	sup := make([]float64, n)
	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		hp := h[(i+n-1)%n]
		hc := h[i]
		sub[i] = hp
		diag[i] = 2 * (hp + hc)
		sup[i] = hc
		yp := y[(i+n-1)%n]
		yn := y[(i+1)%n]
		rhs[i] = 6 * ((yn-y[i])/hc - (y[i]-yp)/hp)
	}
	// corner coefficients: row 0 couples to M[n-1], row n-1 to M[0]
	return solveCyclic(sub, diag, sup, h[n-1], h[n-1], rhs)
}

// naturalMoments solves for the second derivatives of a natural cubic
// spline; both end moments are zero.
func naturalMoments(t, y []float64) ([]float64, error) {
	n := len(y)
	m := make([]float64, n)
	if n < 3 {
		return m, nil
	}
	inner := n - 2
	sub := make([]float64, inner)
	diag := make([]float64, inner)
	sup := make([]float64, inner)
	rhs := make([]float64, inner)
	for k := 0; k < inner; k++ {
		i := k + 1
		hp := t[i] - t[i-1]
		hc := t[i+1] - t[i]
		sub[k] = hp
		diag[k] = 2 * (hp + hc)
		sup[k] = hc
		rhs[k] = 6 * ((y[i+1]-y[i])/hc - (y[i]-y[i-1])/hp)
	}
	x, err := solveTridiagonal(sub, diag, sup, rhs)
	if err != nil {
		return nil, err
	}
	copy(m[1:], x)
	return m, nil
}

// solveTridiagonal solves a tridiagonal system with the Thomas algorithm.
// sub[0] and sup[n-1] are ignored.
func solveTridiagonal(sub, diag, sup, rhs []float64) ([]float64, error) {
	n := len(diag)
	x := make([]float64, n)
	gam := make([]float64, n)

	bet := diag[0]
	if isTiny(bet) {
		return nil, errSingular
	}
	x[0] = rhs[0] / bet
	for j := 1; j < n; j++ {
		gam[j] = sup[j-1] / bet
		bet = diag[j] - sub[j]*gam[j]
		if isTiny(bet) {
			return nil, errSingular
		}
		x[j] = (rhs[j] - sub[j]*x[j-1]) / bet
	}
	for j := n - 2; j >= 0; j-- {
		x[j] -= gam[j+1] * x[j+1]
	}
	return x, nil
}

// solveCyclic solves a tridiagonal system with the extra corner entries
// alpha (row n-1, column 0) and beta (row 0, column n-1), using the
// Sherman-Morrison correction on top of two Thomas solves.
func solveCyclic(sub, diag, sup []float64, alpha, beta float64, rhs []float64) ([]float64, error) {
	n := len(diag)
	if n < 3 {
		return nil, errTooFewKnots
	}

	gamma := -diag[0]
	bb := make([]float64, n)
	copy(bb, diag)
	bb[0] = diag[0] - gamma
	bb[n-1] = diag[n-1] - alpha*beta/gamma

	x, err := solveTridiagonal(sub, bb, sup, rhs)
	if err != nil {
		return nil, err
	}

	u := make([]float64, n)
	u[0] = gamma
	u[n-1] = alpha
	z, err := solveTridiagonal(sub, bb, sup, u)
	if err != nil {
		return nil, err
	}

	denom := 1 + z[0] + beta*z[n-1]/gamma
	if isTiny(denom) {
		return nil, errSingular
	}
	fact := (x[0] + beta*x[n-1]/gamma) / denom
	for i := range x {
		x[i] -= fact * z[i]
	}
	return x, nil
}

func isTiny(v float64) bool {
	return math.Abs(v) < 1e-300 || math.IsNaN(v)
}
