// Package geom holds the point, stroke and drawing types shared by every
// stage of the shape pipeline, together with the small amount of plane
// geometry they all need.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec returns the point as a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// FromVec converts a gonum vector back to a Point.
func FromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return r2.Norm(r2.Sub(p.Vec(), other.Vec()))
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return FromVec(r2.Add(p.Vec(), other.Vec()))
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return FromVec(r2.Sub(p.Vec(), other.Vec()))
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return FromVec(r2.Scale(factor, p.Vec()))
}

// IsFinite reports whether both coordinates are finite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Stroke is an ordered sequence of points: one continuous pen trace.
type Stroke []Point

// Clone returns a copy of the stroke.
func (s Stroke) Clone() Stroke {
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// XY splits the stroke into coordinate slices.
func (s Stroke) XY() (xs, ys []float64) {
	xs = make([]float64, len(s))
	ys = make([]float64, len(s))
	for i, p := range s {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// Centroid returns the arithmetic mean of all points of the stroke.
func (s Stroke) Centroid() Point {
	if len(s) == 0 {
		return Point{}
	}
	xs, ys := s.XY()
	return Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

// Distances returns the distance of every point from c.
func (s Stroke) Distances(c Point) []float64 {
	ds := make([]float64, len(s))
	for i, p := range s {
		ds[i] = p.Distance(c)
	}
	return ds
}

// IsFinite reports whether every coordinate of the stroke is finite.
func (s Stroke) IsFinite() bool {
	for _, p := range s {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// IsClosed reports whether the first and last points coincide within tol.
// A single point is never closed.
func (s Stroke) IsClosed(tol float64) bool {
	if len(s) < 2 {
		return false
	}
	return s[0].Distance(s[len(s)-1]) <= tol
}

// Ring returns the stroke without its closing duplicate, if it has one.
// The result shares storage with s.
func (s Stroke) Ring(tol float64) Stroke {
	if s.IsClosed(tol) {
		return s[:len(s)-1]
	}
	return s
}

// ArcLength returns the polyline length. When closed is true the segment
// from the last point back to the first is included.
func (s Stroke) ArcLength(closed bool) float64 {
	if len(s) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(s); i++ {
		total += s[i].Distance(s[i-1])
	}
	if closed {
		total += s[len(s)-1].Distance(s[0])
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the stroke.
func (s Stroke) Bounds() Rect {
	if len(s) == 0 {
		return Rect{}
	}
	r := Rect{Min: s[0], Max: s[0]}
	for _, p := range s[1:] {
		r = r.Extend(p)
	}
	return r
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Extend grows the box to include p.
func (r Rect) Extend(p Point) Rect {
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return r.Extend(o.Min).Extend(o.Max)
}

// Width of the box.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height of the box.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the center point of the box.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b. When a and b coincide it is the distance to a.
func PerpendicularDistance(p, a, b Point) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	n := r2.Norm(ab)
	if n == 0 {
		return p.Distance(a)
	}
	return math.Abs(r2.Cross(ab, r2.Sub(p.Vec(), a.Vec()))) / n
}

// LineIntersection returns the intersection of the line through a1,a2 with
// the line through b1,b2. ok is false for parallel or degenerate lines.
func LineIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	d1 := r2.Sub(a2.Vec(), a1.Vec())
	d2 := r2.Sub(b2.Vec(), b1.Vec())
	denom := r2.Cross(d1, d2)
	if math.Abs(denom) <= 1e-12*r2.Norm(d1)*r2.Norm(d2) {
		return Point{}, false
	}
	t := r2.Cross(r2.Sub(b1.Vec(), a1.Vec()), d2) / denom
	return FromVec(r2.Add(a1.Vec(), r2.Scale(t, d1))), true
}

// PointAlong returns the point at fraction f (0..1) of the arc length of
// the polyline pts.
func PointAlong(pts []Point, f float64) Point {
	if len(pts) == 0 {
		return Point{}
	}
	total := Stroke(pts).ArcLength(false)
	if total == 0 {
		return pts[0]
	}
	target := Clamp(f, 0, 1) * total
	walked := 0.0
	for i := 1; i < len(pts); i++ {
		seg := pts[i].Distance(pts[i-1])
		if walked+seg >= target && seg > 0 {
			t := (target - walked) / seg
			return pts[i-1].Add(pts[i].Sub(pts[i-1]).Scale(t))
		}
		walked += seg
	}
	return pts[len(pts)-1]
}
