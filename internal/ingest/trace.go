package ingest

import "image"

// component is one 8-connected blob of mask pixels.
type component struct {
	label  int
	start  image.Point // topmost, then leftmost pixel
	size   int
	bounds image.Rectangle
}

// labelComponents groups mask pixels into 8-connected components using an
// iterative flood fill. Components are returned in raster order of their
// start pixel; labels holds the 1-based component label of every pixel.
func labelComponents(m *mask) (labels []int, comps []component) {
	labels = make([]int, m.w*m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.at(x, y) || labels[y*m.w+x] != 0 {
				continue
			}
			c := component{
				label:  len(comps) + 1,
				start:  image.Pt(x, y),
				bounds: image.Rect(x, y, x+1, y+1),
			}
			floodFill(m, labels, &c)
			comps = append(comps, c)
		}
	}
	return labels, comps
}

// floodFill labels every pixel reachable from c.start. It is stack based
// rather than recursive so large blobs cannot overflow the goroutine stack.
func floodFill(m *mask, labels []int, c *component) {
	stack := []image.Point{c.start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !m.at(p.X, p.Y) || labels[p.Y*m.w+p.X] != 0 {
			continue
		}
		labels[p.Y*m.w+p.X] = c.label
		c.size++
		c.bounds = c.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
			}
		}
	}
}

// mooreNeighbors lists the 8 neighbour offsets clockwise (Y down),
// starting from west.
var mooreNeighbors = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func neighborIndex(d image.Point) int {
	for i, n := range mooreNeighbors {
		if n == d {
			return i
		}
	}
	return -1
}

// traceBoundary follows the outer boundary of a component clockwise with
// Moore-neighbour tracing. Tracing stops once the first move out of the
// start pixel is about to repeat, which also handles one-pixel-wide
// strokes that pass through the start pixel more than once.
func traceBoundary(labels []int, w, h int, c component) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == c.label
	}

	// step moves to the next boundary pixel clockwise from the backtrack
	// direction and returns the new backtrack direction.
	step := func(cur image.Point, back int) (image.Point, int, bool) {
		for k := 1; k <= 8; k++ {
			np := cur.Add(mooreNeighbors[(back+k)%8])
			if inside(np) {
				prev := cur.Add(mooreNeighbors[(back+k-1)%8])
				return np, neighborIndex(prev.Sub(np)), true
			}
		}
		return cur, back, false
	}

	// The start pixel is the first in raster order, so its west
	// neighbour is background.
	first, firstBack, ok := step(c.start, 0)
	if !ok {
		return []image.Point{c.start}
	}

	contour := []image.Point{c.start, first}
	cur, back := first, firstBack
	for n := 0; n < 4*c.size+8; n++ {
		prev := cur
		cur, back, _ = step(cur, back)
		if prev == c.start && cur == first && back == firstBack {
			// drop the repeated start pixel
			contour = contour[:len(contour)-1]
			break
		}
		contour = append(contour, cur)
	}
	return contour
}

// traceContours traces the outer boundary of every component with at least
// minPoints pixels. With externalOnly, components whose bounding box lies
// inside another component's bounding box are skipped.
func traceContours(m *mask, minPoints int, externalOnly bool) [][]image.Point {
	labels, comps := labelComponents(m)

	var contours [][]image.Point
	for i, c := range comps {
		if c.size < minPoints {
			continue
		}
		if externalOnly && enclosed(c, i, comps, minPoints) {
			continue
		}
		contours = append(contours, traceBoundary(labels, m.w, m.h, c))
	}
	return contours
}

func enclosed(c component, self int, comps []component, minPoints int) bool {
	for j, o := range comps {
		if j == self || o.size < minPoints {
			continue
		}
		if c.bounds.In(o.bounds) && c.bounds != o.bounds {
			return true
		}
	}
	return false
}
