package geom

// SubPath is one stroke of a path, identified by its sub-path id.
type SubPath struct {
	ID     int    `json:"id"`
	Stroke Stroke `json:"points"`
}

// Path groups the strokes sharing one path id, e.g. a rectangle and its
// hole.
type Path struct {
	ID       int       `json:"id"`
	SubPaths []SubPath `json:"subpaths"`
}

// Drawing is an ordered collection of paths.
type Drawing struct {
	Paths []Path `json:"paths"`
}

// StrokeRef locates a stroke inside a drawing.
type StrokeRef struct {
	PathIndex int    `json:"path_index"`
	PathID    int    `json:"path_id"`
	SubPathID int    `json:"subpath_id"`
	Stroke    Stroke `json:"-"`
}

// FromStrokes builds a drawing with one single-stroke path per stroke.
func FromStrokes(strokes ...Stroke) Drawing {
	d := Drawing{Paths: make([]Path, len(strokes))}
	for i, s := range strokes {
		d.Paths[i] = Path{ID: i, SubPaths: []SubPath{{ID: 0, Stroke: s}}}
	}
	return d
}

// Each calls fn for every stroke in insertion order.
func (d Drawing) Each(fn func(ref StrokeRef)) {
	for pi, p := range d.Paths {
		for _, sp := range p.SubPaths {
			fn(StrokeRef{PathIndex: pi, PathID: p.ID, SubPathID: sp.ID, Stroke: sp.Stroke})
		}
	}
}

// Refs returns every stroke of the drawing in insertion order.
func (d Drawing) Refs() []StrokeRef {
	refs := make([]StrokeRef, 0, d.NumStrokes())
	d.Each(func(ref StrokeRef) {
		refs = append(refs, ref)
	})
	return refs
}

// NumStrokes counts the strokes of all paths.
func (d Drawing) NumStrokes() int {
	n := 0
	for _, p := range d.Paths {
		n += len(p.SubPaths)
	}
	return n
}

// NumPoints counts the points of all strokes.
func (d Drawing) NumPoints() int {
	n := 0
	d.Each(func(ref StrokeRef) {
		n += len(ref.Stroke)
	})
	return n
}

// Bounds returns the bounding box of every point in the drawing.
func (d Drawing) Bounds() Rect {
	var r Rect
	first := true
	d.Each(func(ref StrokeRef) {
		if len(ref.Stroke) == 0 {
			return
		}
		b := ref.Stroke.Bounds()
		if first {
			r = b
			first = false
			return
		}
		r = r.Union(b)
	})
	return r
}

// Map returns a copy of the drawing with fn applied to every stroke.
// Path and sub-path ids are preserved.
func (d Drawing) Map(fn func(ref StrokeRef) Stroke) Drawing {
	out := Drawing{Paths: make([]Path, len(d.Paths))}
	for pi, p := range d.Paths {
		np := Path{ID: p.ID, SubPaths: make([]SubPath, len(p.SubPaths))}
		for si, sp := range p.SubPaths {
			ref := StrokeRef{PathIndex: pi, PathID: p.ID, SubPathID: sp.ID, Stroke: sp.Stroke}
			np.SubPaths[si] = SubPath{ID: sp.ID, Stroke: fn(ref)}
		}
		out.Paths[pi] = np
	}
	return out
}
