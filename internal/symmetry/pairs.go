package symmetry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// Line is an arbitrary reflection axis: the line through Point with
// direction Angle (radians, counter-clockwise from +X).
type Line struct {
	Point geom.Point `json:"point"`
	Angle float64    `json:"angle"`
}

// Reflect mirrors p across the line.
func (l Line) Reflect(p geom.Point) geom.Point {
	dir := r2.Vec{X: math.Cos(l.Angle), Y: math.Sin(l.Angle)}
	rel := r2.Sub(p.Vec(), l.Point.Vec())
	along := r2.Scale(r2.Dot(rel, dir), dir)
	mirrored := r2.Sub(r2.Scale(2, along), rel)
	return geom.FromVec(r2.Add(l.Point.Vec(), mirrored))
}

// Pair links a point to the original point nearest its reflection.
type Pair struct {
	From int `json:"from"`
	To   int `json:"to"`

	// Distance from the reflection of point From to point To.
	Distance float64 `json:"distance"`
}

// PairResult reports how well a stroke mirrors onto itself across an axis.
type PairResult struct {
	Axis  Line   `json:"axis"`
	Pairs []Pair `json:"pairs"`

	// RMS and Max summarize the pair distances. Zero means a perfect
	// mirror image.
	RMS float64 `json:"rms"`
	Max float64 `json:"max"`
}

// Pairs reflects every point of s across axis and pairs it with the
// nearest original point. Unlike [Detect] it works for any axis and grades
// the match instead of answering yes or no.
func Pairs(s geom.Stroke, axis Line) PairResult {
	res := PairResult{Axis: axis, Pairs: []Pair{}}
	if len(s) == 0 || !s.IsFinite() {
		return res
	}

	ix := geom.NewIndex(s)
	sum := 0.0
	for i, p := range s {
		j, d := ix.Nearest(axis.Reflect(p))
		res.Pairs = append(res.Pairs, Pair{From: i, To: j, Distance: d})
		sum += d * d
		res.Max = math.Max(res.Max, d)
	}
	res.RMS = math.Sqrt(sum / float64(len(s)))
	return res
}

// BestAxis scans steps evenly spaced axis angles in [0, π) through the
// centroid of s and returns the pairing with the lowest RMS.
func BestAxis(s geom.Stroke, steps int) PairResult {
	if steps < 1 {
		steps = 180
	}
	c := s.Centroid()
	var best PairResult
	for i := 0; i < steps; i++ {
		angle := math.Pi * float64(i) / float64(steps)
		pr := Pairs(s, Line{Point: c, Angle: angle})
		if i == 0 || pr.RMS < best.RMS {
			best = pr
		}
	}
	return best
}
