package detection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// simplified is a closed stroke reduced to its polygon vertices.
type simplified struct {
	ring  geom.Stroke // stroke without closing duplicate
	index []int       // vertex positions in ring
}

func (sp simplified) vertices() []geom.Point {
	out := make([]geom.Point, len(sp.index))
	for i, j := range sp.index {
		out[i] = sp.ring[j]
	}
	return out
}

// side returns the ring points from vertex i to vertex i+1, wrapping.
func (sp simplified) side(i int) []geom.Point {
	n := len(sp.index)
	from, to := sp.index[i], sp.index[(i+1)%n]
	if to > from {
		return sp.ring[from : to+1]
	}
	pts := make([]geom.Point, 0, len(sp.ring)-from+to+1)
	pts = append(pts, sp.ring[from:]...)
	pts = append(pts, sp.ring[:to+1]...)
	return pts
}

// simplifyStroke runs closed Douglas-Peucker with an epsilon proportional
// to the closed perimeter.
func simplifyStroke(s geom.Stroke, cfg config.Config) simplified {
	ring := s.Ring(cfg.CloseTol)
	if len(ring) < 3 {
		idx := make([]int, len(ring))
		for i := range idx {
			idx[i] = i
		}
		return simplified{ring: ring, index: idx}
	}
	eps := cfg.SimplifyEpsilonFrac * ring.ArcLength(true)
	return simplified{ring: ring, index: geom.SimplifyClosedIndices(ring, eps)}
}

// fitQuad measures a four-vertex simplification. ok is false when the
// stroke does not simplify to four distinct vertices.
func fitQuad(s geom.Stroke, cfg config.Config) (QuadFit, bool) {
	if len(s) < 4 || !s.IsFinite() {
		return QuadFit{}, false
	}
	sp := simplifyStroke(s, cfg)
	if len(sp.index) != 4 {
		return QuadFit{}, false
	}

	corners := sp.vertices()
	fit := QuadFit{
		Corners:    corners,
		Sides:      make([]float64, 4),
		Angles:     make([]float64, 4),
		CornerGaps: make([]float64, 4),
	}
	for i := range corners {
		fit.Sides[i] = corners[i].Distance(corners[(i+1)%4])
		if fit.Sides[i] == 0 {
			return QuadFit{}, false
		}
	}
	for i := range corners {
		prev := corners[(i+3)%4].Vec()
		next := corners[(i+1)%4].Vec()
		at := corners[i].Vec()
		a := r2.Sub(prev, at)
		b := r2.Sub(next, at)
		cos := r2.Dot(a, b) / (r2.Norm(a) * r2.Norm(b))
		fit.Angles[i] = math.Acos(geom.Clamp(cos, -1, 1)) * 180 / math.Pi
	}
	fit.Width = (fit.Sides[0] + fit.Sides[2]) / 2
	fit.Height = (fit.Sides[1] + fit.Sides[3]) / 2

	// side lines are sampled away from the corners, where rounding lives
	type line struct{ a, b geom.Point }
	lines := make([]line, 4)
	for i := range lines {
		pts := sp.side(i)
		lines[i] = line{geom.PointAlong(pts, 0.25), geom.PointAlong(pts, 0.75)}
	}
	ix := geom.NewIndex(sp.ring)
	for i := range corners {
		in, out := lines[(i+3)%4], lines[i]
		p, ok := geom.LineIntersection(in.a, in.b, out.a, out.b)
		if !ok {
			continue
		}
		_, gap := ix.Nearest(p)
		fit.CornerGaps[i] = gap
	}
	return fit, true
}

// isRectangular checks right angles and equal opposite sides.
func (q QuadFit) isRectangular(cfg config.Config) bool {
	for _, a := range q.Angles {
		if math.Abs(a-90) > cfg.RightAngleTolDeg {
			return false
		}
	}
	for i := 0; i < 2; i++ {
		s1, s2 := q.Sides[i], q.Sides[i+2]
		if math.Abs(s1-s2) > cfg.RectSideTol*math.Max(s1, s2) {
			return false
		}
	}
	return true
}

// isRounded reports whether any corner gap exceeds the configured fraction
// of the mean side length.
func (q QuadFit) isRounded(cfg config.Config) bool {
	meanSide := stat.Mean(q.Sides, nil)
	limit := cfg.RoundedCornerGapFrac * meanSide
	for _, g := range q.CornerGaps {
		if g > limit {
			return true
		}
	}
	return false
}

// IsRectangle reports whether the stroke simplifies to four vertices with
// right angles, equal opposite sides and sharp corners.
//
// Simplification uses closed Douglas-Peucker with epsilon =
// SimplifyEpsilonFrac times the closed perimeter. Angles must be within
// RightAngleTolDeg of 90°, opposite sides within RectSideTol (relative) of
// each other. Rotated rectangles match.
func IsRectangle(s geom.Stroke, cfg config.Config) (QuadFit, bool) {
	q, ok := fitQuad(s, cfg)
	if !ok {
		return QuadFit{}, false
	}
	return q, q.isRectangular(cfg) && !q.isRounded(cfg)
}

// IsRoundedRectangle reports whether the stroke is a rectangle whose
// corners are replaced by arcs.
//
// The rectangle checks are those of [IsRectangle]. A corner is rounded
// when the side lines meeting there intersect farther than
// RoundedCornerGapFrac times the mean side length from the stroke.
func IsRoundedRectangle(s geom.Stroke, cfg config.Config) (QuadFit, bool) {
	q, ok := fitQuad(s, cfg)
	if !ok {
		return QuadFit{}, false
	}
	return q, q.isRectangular(cfg) && q.isRounded(cfg)
}

// IsPolygon reports whether the stroke simplifies to at least
// PolygonVertexCountMin vertices and is not a star.
func IsPolygon(s geom.Stroke, cfg config.Config) (PolygonFit, bool) {
	if len(s) < 5 || !s.IsFinite() {
		return PolygonFit{}, false
	}
	sp := simplifyStroke(s, cfg)
	if len(sp.index) < cfg.PolygonVertexCountMin {
		return PolygonFit{}, false
	}
	if _, star := IsStar(s, cfg); star {
		return PolygonFit{}, false
	}
	return polygonFit(sp.vertices()), true
}

// IsStar reports whether the stroke is a star.
//
// The stroke must simplify to at least StarVertexCountMin vertices. With
// StarRequireAlternation set (the default) the vertices must alternate
// between tips outside and valleys inside the mean radius, each group
// consistent within StarRadialTol of its own mean radius, and the tips
// must clear the valleys by more than StarRadialTol times the mean radius.
//
// With StarRequireAlternation unset the looser radial test is used: every
// vertex within StarRadialTol (relative) of the mean radius. Regular
// polygons with many sides pass that test.
func IsStar(s geom.Stroke, cfg config.Config) (PolygonFit, bool) {
	if len(s) < 5 || !s.IsFinite() {
		return PolygonFit{}, false
	}
	sp := simplifyStroke(s, cfg)
	if len(sp.index) < cfg.StarVertexCountMin {
		return PolygonFit{}, false
	}

	fit := polygonFit(sp.vertices())
	if !(fit.MeanRadius > 0) {
		return fit, false
	}
	dists := geom.Stroke(fit.Vertices).Distances(fit.Centroid)

	if !cfg.StarRequireAlternation {
		for _, d := range dists {
			if math.Abs(d-fit.MeanRadius) >= cfg.StarRadialTol*fit.MeanRadius {
				return fit, false
			}
		}
		return fit, true
	}

	n := len(dists)
	if n%2 != 0 {
		return fit, false
	}
	// group by parity; the first vertex may be a tip or a valley
	var even, odd []float64
	for i, d := range dists {
		if i%2 == 0 {
			even = append(even, d)
		} else {
			odd = append(odd, d)
		}
	}
	outer, inner := even, odd
	if stat.Mean(odd, nil) > stat.Mean(even, nil) {
		outer, inner = odd, even
	}
	for _, d := range outer {
		if d <= fit.MeanRadius {
			return fit, false
		}
	}
	for _, d := range inner {
		if d >= fit.MeanRadius {
			return fit, false
		}
	}

	outerMean := stat.Mean(outer, nil)
	innerMean := stat.Mean(inner, nil)
	if !consistent(outer, outerMean, cfg.StarRadialTol) || !consistent(inner, innerMean, cfg.StarRadialTol) {
		return fit, false
	}
	if outerMean-innerMean <= cfg.StarRadialTol*fit.MeanRadius {
		return fit, false
	}

	fit.OuterRadius = outerMean
	fit.InnerRadius = innerMean
	return fit, true
}

func consistent(ds []float64, mean, tol float64) bool {
	for _, d := range ds {
		if math.Abs(d-mean) > tol*mean {
			return false
		}
	}
	return true
}

func polygonFit(vertices []geom.Point) PolygonFit {
	c := geom.Stroke(vertices).Centroid()
	return PolygonFit{
		Vertices:   vertices,
		Centroid:   c,
		MeanRadius: stat.Mean(geom.Stroke(vertices).Distances(c), nil),
	}
}
