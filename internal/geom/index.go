package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Index answers nearest-point queries over a fixed set of points.
type Index struct {
	tree   *kdtree.Tree
	lookup map[[2]float64]int
}

// NewIndex builds a k-d tree over pts. Duplicate coordinates resolve to the
// first index holding them.
func NewIndex(pts []Point) *Index {
	ix := &Index{lookup: make(map[[2]float64]int, len(pts))}
	if len(pts) == 0 {
		return ix
	}
	// kdtree.New reorders its input in place
	kp := make(kdtree.Points, len(pts))
	for i, p := range pts {
		kp[i] = kdtree.Point{p.X, p.Y}
		key := [2]float64{p.X, p.Y}
		if _, ok := ix.lookup[key]; !ok {
			ix.lookup[key] = i
		}
	}
	ix.tree = kdtree.New(kp, false)
	return ix
}

// Nearest returns the index of the point closest to p and its distance.
// An empty index returns -1 and +Inf.
func (ix *Index) Nearest(p Point) (int, float64) {
	if ix.tree == nil {
		return -1, math.Inf(1)
	}
	got, d2 := ix.tree.Nearest(kdtree.Point{p.X, p.Y})
	q, ok := got.(kdtree.Point)
	if !ok {
		return -1, math.Inf(1)
	}
	return ix.lookup[[2]float64{q[0], q[1]}], math.Sqrt(d2)
}

// Hausdorff returns the symmetric Hausdorff distance between two point sets.
// It is +Inf when exactly one of them is empty and 0 when both are.
func Hausdorff(a, b []Point) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	return math.Max(directedHausdorff(a, b), directedHausdorff(b, a))
}

func directedHausdorff(from, to []Point) float64 {
	ix := NewIndex(to)
	worst := 0.0
	for _, p := range from {
		_, d := ix.Nearest(p)
		worst = math.Max(worst, d)
	}
	return worst
}
