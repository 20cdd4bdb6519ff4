package detection

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
)

// IsStraightLine reports whether the stroke is a straight line.
//
// Strokes that are not too steep (|slope| <= 1) are fitted with an ordinary
// least-squares regression of y on x and judged by their vertical
// residuals. Steeper strokes, including vertical ones, use a total least
// squares fit (principal axis of the point covariance) and perpendicular
// residuals, so orientation does not bias the result.
//
// Parameters:
//   - s: Stroke to test. Fewer than 2 points, or all points identical,
//     never match.
//   - cfg: Uses LineResidualTol as the maximum allowed residual.
//
// Returns the fitted segment and whether it matched.
func IsStraightLine(s geom.Stroke, cfg config.Config) (LineFit, bool) {
	if len(s) < 2 {
		return LineFit{}, false
	}
	b := s.Bounds()
	if b.Width() == 0 && b.Height() == 0 {
		return LineFit{}, false
	}

	fit, ok := fitOLS(s)
	if !ok {
		fit, ok = fitPCA(s)
		if !ok {
			logging.Logger().Debug("line fit failed", "points", len(s))
			return LineFit{}, false
		}
	}

	return fit, fit.MaxResidual <= cfg.LineResidualTol
}

// fitOLS fits y = alpha + beta*x. It declines strokes with no x variance
// or a slope steeper than 1.
func fitOLS(s geom.Stroke) (LineFit, bool) {
	xs, ys := s.XY()
	if stat.Variance(xs, nil) == 0 {
		return LineFit{}, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.Abs(beta) > 1 {
		return LineFit{}, false
	}

	maxRes := 0.0
	for i := range xs {
		maxRes = math.Max(maxRes, math.Abs(ys[i]-(alpha+beta*xs[i])))
	}

	meanX := stat.Mean(xs, nil)
	origin := r2.Vec{X: meanX, Y: alpha + beta*meanX}
	dir := r2.Unit(r2.Vec{X: 1, Y: beta})

	fit := segmentAlong(s, origin, dir)
	fit.MaxResidual = maxRes
	fit.Method = "ols"
	return fit, true
}

// fitPCA fits the principal axis of the point covariance.
func fitPCA(s geom.Stroke) (LineFit, bool) {
	data := mat.NewDense(len(s), 2, nil)
	for i, p := range s {
		data.Set(i, 0, p.X)
		data.Set(i, 1, p.Y)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return LineFit{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// eigenvalues ascend, so column 1 is the principal direction
	dir := r2.Vec{X: vecs.At(0, 1), Y: vecs.At(1, 1)}
	normal := r2.Vec{X: vecs.At(0, 0), Y: vecs.At(1, 0)}
	origin := s.Centroid().Vec()

	maxRes := 0.0
	for _, p := range s {
		maxRes = math.Max(maxRes, math.Abs(r2.Dot(r2.Sub(p.Vec(), origin), normal)))
	}

	fit := segmentAlong(s, origin, dir)
	fit.MaxResidual = maxRes
	fit.Method = "pca"
	return fit, true
}

// segmentAlong projects the stroke onto the line origin + t*dir and
// returns the segment spanned by the projections.
func segmentAlong(s geom.Stroke, origin, dir r2.Vec) LineFit {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range s {
		t := r2.Dot(r2.Sub(p.Vec(), origin), dir)
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}

	start := geom.FromVec(r2.Add(origin, r2.Scale(lo, dir)))
	end := geom.FromVec(r2.Add(origin, r2.Scale(hi, dir)))

	angle := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	angle = math.Mod(angle+360, 180)

	return LineFit{
		Start:        start,
		End:          end,
		Length:       start.Distance(end),
		AngleDegrees: angle,
	}
}
