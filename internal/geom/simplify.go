package geom

import "sort"

// SimplifyIndices runs Douglas-Peucker on an open polyline and returns the
// indices of the kept points. The first and last points are always kept.
func SimplifyIndices(path []Point, epsilon float64) []int {
	if len(path) == 0 {
		return nil
	}
	if len(path) <= 2 {
		idx := make([]int, len(path))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	keep := make([]bool, len(path))
	keep[0] = true
	keep[len(path)-1] = true
	simplifyRange(path, 0, len(path)-1, epsilon, keep)

	idx := make([]int, 0, len(path))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return idx
}

func simplifyRange(path []Point, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}

	// Find point with maximum distance from line between first and last points
	dmax := 0.0
	index := 0
	for i := first + 1; i < last; i++ {
		d := PerpendicularDistance(path[i], path[first], path[last])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		keep[index] = true
		simplifyRange(path, first, index, epsilon, keep)
		simplifyRange(path, index, last, epsilon, keep)
	}
}

// SimplifyClosedIndices simplifies a closed ring given without its closing
// duplicate. The ring is split at two anchors found by a rough diameter
// search (the point farthest from the first point, then the point farthest
// from that one) and each half is simplified as an open polyline. The
// returned indices are ascending.
func SimplifyClosedIndices(ring []Point, epsilon float64) []int {
	n := len(ring)
	if n < 3 {
		return SimplifyIndices(ring, epsilon)
	}

	a := farthestFrom(ring, 0)
	if a == 0 {
		// every point coincides with the first
		return []int{0}
	}
	b := farthestFrom(ring, a)
	if a > b {
		a, b = b, a
	}

	first := SimplifyIndices(ring[a:b+1], epsilon)

	back := make([]Point, 0, n-b+a+1)
	back = append(back, ring[b:]...)
	back = append(back, ring[:a+1]...)
	second := SimplifyIndices(back, epsilon)

	idx := make([]int, 0, len(first)+len(second))
	for _, j := range first[:len(first)-1] {
		idx = append(idx, a+j)
	}
	for _, j := range second[:len(second)-1] {
		idx = append(idx, (b+j)%n)
	}
	sort.Ints(idx)
	return idx
}

func farthestFrom(pts []Point, i int) int {
	far := i
	dmax := 0.0
	for j, p := range pts {
		if d := p.Distance(pts[i]); d > dmax {
			dmax = d
			far = j
		}
	}
	return far
}
