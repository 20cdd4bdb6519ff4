// Package symmetry finds reflective symmetry axes of strokes.
//
// [Detect] tests four axes through the stroke centroid: vertical,
// horizontal and the two diagonals. A stroke is symmetric about an axis
// when its reflected point set equals the original point set after both are
// snapped to a grid of Config.SymmetryRoundTolerance. The comparison is a
// multiset comparison, so point order does not matter but multiplicity
// does.
//
// Snapping makes the test cheap and exact but brittle: points that land
// on opposite sides of a grid-cell boundary after reflection cause false
// negatives, and sparse strokes can produce false positives. [Pairs] gives
// a graded alternative for arbitrary axes.
package symmetry

import (
	"math"
	"sort"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
)

// Kind names one of the four candidate axes.
type Kind string

const (
	Vertical    Kind = "vertical"
	Horizontal  Kind = "horizontal"
	Diagonal45  Kind = "diagonal_45"
	Diagonal135 Kind = "diagonal_135"
)

// Kinds lists the candidate axes in test order.
func Kinds() []Kind {
	return []Kind{Vertical, Horizontal, Diagonal45, Diagonal135}
}

// Axis is a symmetry axis through Center.
type Axis struct {
	Kind   Kind       `json:"kind"`
	Center geom.Point `json:"center"`
}

// X returns the x coordinate of a vertical axis (the line x = X()).
func (a Axis) X() float64 { return a.Center.X }

// Y returns the y coordinate of a horizontal axis (the line y = Y()).
func (a Axis) Y() float64 { return a.Center.Y }

// Reflect mirrors p across the axis.
func (a Axis) Reflect(p geom.Point) geom.Point {
	cx, cy := a.Center.X, a.Center.Y
	switch a.Kind {
	case Vertical:
		return geom.Pt(2*cx-p.X, p.Y)
	case Horizontal:
		return geom.Pt(p.X, 2*cy-p.Y)
	case Diagonal45:
		return geom.Pt(cx+(p.Y-cy), cy+(p.X-cx))
	case Diagonal135:
		return geom.Pt(cx-(p.Y-cy), cy-(p.X-cx))
	}
	return p
}

// Line returns the axis as an arbitrary line.
func (a Axis) Line() Line {
	angle := 0.0
	switch a.Kind {
	case Vertical:
		angle = math.Pi / 2
	case Horizontal:
		angle = 0
	case Diagonal45:
		angle = math.Pi / 4
	case Diagonal135:
		angle = 3 * math.Pi / 4
	}
	return Line{Point: a.Center, Angle: angle}
}

// Result lists the axes a stroke is symmetric about.
type Result struct {
	Centroid geom.Point `json:"centroid"`
	Axes     []Axis     `json:"axes"`
}

// Has reports whether the result contains an axis of the given kind.
func (r Result) Has(k Kind) bool {
	for _, a := range r.Axes {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Detect tests the four candidate axes through the centroid of s.
// Strokes with fewer than 3 points, or non-finite coordinates, yield an
// empty result. A closing duplicate point is ignored.
func Detect(s geom.Stroke, cfg config.Config) Result {
	pts := s.Ring(cfg.CloseTol)
	if len(pts) < 3 || !pts.IsFinite() {
		return Result{Axes: []Axis{}}
	}

	c := pts.Centroid()
	res := Result{Centroid: c, Axes: []Axis{}}

	grid := cfg.SymmetryRoundTolerance
	if !(grid > 0) {
		grid = 1
	}
	original := snap(pts, grid, nil)

	for _, k := range Kinds() {
		axis := Axis{Kind: k, Center: c}
		reflected := snap(pts, grid, axis.Reflect)
		if equalKeys(original, reflected) {
			res.Axes = append(res.Axes, axis)
		}
	}

	logging.Logger().Debug("symmetry detected", "points", len(pts), "axes", len(res.Axes))
	return res
}

type cell [2]int64

// snap maps points (optionally transformed) to grid cells and sorts them.
func snap(pts geom.Stroke, grid float64, fn func(geom.Point) geom.Point) []cell {
	out := make([]cell, len(pts))
	for i, p := range pts {
		if fn != nil {
			p = fn(p)
		}
		out[i] = cell{int64(math.Round(p.X / grid)), int64(math.Round(p.Y / grid))}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func equalKeys(a, b []cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
