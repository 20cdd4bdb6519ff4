package detection

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
)

// IsCircle reports whether every point of the stroke lies at nearly the
// same distance from the stroke centroid.
//
// The tolerance is relative: the largest deviation from the mean distance
// may be at most CircleRadiusTol times the mean distance. The test only
// depends on the set of points, so reordering the stroke never changes the
// outcome.
//
// Strokes with fewer than 3 points, or whose points all coincide, never
// match.
func IsCircle(s geom.Stroke, cfg config.Config) (CircleFit, bool) {
	if len(s) < 3 {
		return CircleFit{}, false
	}

	center := s.Centroid()
	dists := s.Distances(center)
	mean := stat.Mean(dists, nil)
	if !(mean > 0) {
		return CircleFit{}, false
	}

	maxDev := 0.0
	for _, d := range dists {
		maxDev = math.Max(maxDev, math.Abs(d-mean))
	}

	fit := CircleFit{Center: center, Radius: mean, MaxDeviation: maxDev}
	return fit, maxDev <= cfg.CircleRadiusTol*mean
}

// IsEllipse reports whether the stroke is a true ellipse that is not a
// circle.
//
// # Algorithm
//
//  1. Normalize the points around their centroid to unit RMS radius
//  2. Fit the general conic Au² + Buv + Cv² + Du + Ev + F = 0 by taking
//     the eigenvector of DᵀD with the smallest eigenvalue
//  3. Require a negative discriminant (B² - 4AC < 0) and a real size
//  4. Recover center, full axis lengths and orientation
//
// The fitted ellipse must have both full axes longer than EllipseMinAxis,
// an axis ratio inside EllipseAspectRange, and a maximum normalized radial
// residual of at most EllipseFitTol. Round fits, whose axis ratio is within
// CircleRadiusTol of 1, and strokes that also pass [IsCircle] are rejected
// so that circles and circular arcs are never tagged as ellipses.
//
// Needs at least 5 points. Degenerate fits (collinear points, singular
// systems) are logged and never match.
func IsEllipse(s geom.Stroke, cfg config.Config) (EllipseFit, bool) {
	if len(s) < 5 {
		return EllipseFit{}, false
	}

	el, err := fitEllipse(s)
	if err != nil {
		logging.Logger().Debug("ellipse fit rejected", "points", len(s), "error", err)
		return EllipseFit{}, false
	}

	if el.MinorAxis <= cfg.EllipseMinAxis {
		return el, false
	}
	ratio := el.MajorAxis / el.MinorAxis
	if !cfg.EllipseAspectRange.Contains(ratio) || !cfg.EllipseAspectRange.Contains(1/ratio) {
		return el, false
	}
	if el.Residual > cfg.EllipseFitTol {
		return el, false
	}
	// open arcs of a circle fail IsCircle but still fit a round conic
	if math.Max(ratio, 1/ratio) <= 1+cfg.CircleRadiusTol {
		return el, false
	}
	if _, round := IsCircle(s, cfg); round {
		return el, false
	}
	return el, true
}

var (
	errConicSingular   = errors.New("conic system is singular")
	errNotEllipse      = errors.New("conic is not an ellipse")
	errImaginarySize   = errors.New("conic has no real points")
	errDegeneratePoint = errors.New("points are degenerate")
)

// fitEllipse fits a general conic and converts it to geometric ellipse
// parameters.
func fitEllipse(s geom.Stroke) (EllipseFit, error) {
	center := s.Centroid()
	scale := 0.0
	for _, p := range s {
		d := p.Sub(center)
		scale += d.X*d.X + d.Y*d.Y
	}
	scale = math.Sqrt(scale / float64(len(s)))
	if !(scale > 0) {
		return EllipseFit{}, errDegeneratePoint
	}

	design := mat.NewDense(len(s), 6, nil)
	for i, p := range s {
		u := (p.X - center.X) / scale
		v := (p.Y - center.Y) / scale
		design.SetRow(i, []float64{u * u, u * v, v * v, u, v, 1})
	}

	var scatter mat.SymDense
	scatter.SymOuterK(1, design.T())

	var eig mat.EigenSym
	if !eig.Factorize(&scatter, true) {
		return EllipseFit{}, errConicSingular
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	a, b, c := vecs.At(0, 0), vecs.At(1, 0), vecs.At(2, 0)
	d, e, f := vecs.At(3, 0), vecs.At(4, 0), vecs.At(5, 0)

	det := 4*a*c - b*b
	if det <= 1e-12 {
		return EllipseFit{}, errNotEllipse
	}

	u0 := (b*e - 2*c*d) / det
	v0 := (b*d - 2*a*e) / det
	f0 := a*u0*u0 + b*u0*v0 + c*v0*v0 + d*u0 + e*v0 + f

	// eigenvalues of [[a, b/2], [b/2, c]]; lam1 lies along theta
	mid := (a + c) / 2
	rad := math.Hypot((a-c)/2, b/2)
	lam1, lam2 := mid+rad, mid-rad
	theta := 0.5 * math.Atan2(b, a-c)

	s1, s2 := -f0/lam1, -f0/lam2
	if !(s1 > 0) || !(s2 > 0) {
		return EllipseFit{}, errImaginarySize
	}
	semi1 := math.Sqrt(s1)
	semi2 := math.Sqrt(s2)

	el := EllipseFit{
		Center: geom.Pt(center.X+scale*u0, center.Y+scale*v0),
	}

	major, minor, majorAngle := semi1, semi2, theta
	if semi2 > semi1 {
		major, minor, majorAngle = semi2, semi1, theta+math.Pi/2
	}
	el.MajorAxis = 2 * major * scale
	el.MinorAxis = 2 * minor * scale
	el.AngleDegrees = math.Mod(majorAngle*180/math.Pi+360, 180)

	// radial residual in the normalized frame
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	residual := 0.0
	for _, p := range s {
		du := (p.X-center.X)/scale - u0
		dv := (p.Y-center.Y)/scale - v0
		x := du*cosT + dv*sinT
		y := -du*sinT + dv*cosT
		r := math.Hypot(x/semi1, y/semi2)
		residual = math.Max(residual, math.Abs(r-1))
	}
	el.Residual = residual

	if math.IsNaN(el.MajorAxis) || math.IsInf(el.MajorAxis, 0) {
		return EllipseFit{}, errConicSingular
	}
	return el, nil
}
