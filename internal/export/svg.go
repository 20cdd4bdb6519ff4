package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	// Palette colours paths by index. Nil uses DefaultPalette.
	Palette Palette

	// CloseTol is the first/last point distance below which a stroke is
	// written with a close-path.
	CloseTol float64

	// Fill paints the inside of each path instead of its outline.
	Fill bool

	// StrokeWidth is the outline width in drawing units.
	StrokeWidth float64

	// Padding grows the canvas beyond the largest coordinate, as a
	// fraction of it.
	Padding float64
}

// DefaultSVGOptions returns outline rendering with 10% padding.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Palette:     DefaultPalette(),
		CloseTol:    1e-6,
		StrokeWidth: 2,
		Padding:     0.1,
	}
}

// CanvasSize returns the canvas width and height for a drawing: the largest
// x and y coordinates grown by padding, truncated, and at least 1.
func CanvasSize(d geom.Drawing, padding float64) (int, int) {
	maxX, maxY := 0.0, 0.0
	d.Each(func(ref geom.StrokeRef) {
		for _, p := range ref.Stroke {
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	})
	w := int(maxX + padding*maxX)
	h := int(maxY + padding*maxY)
	return max(w, 1), max(h, 1)
}

// WriteSVG writes d as an SVG Tiny 1.2 document with one <path> per stroke.
func WriteSVG(w io.Writer, d geom.Drawing, opts SVGOptions) error {
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = 2
	}
	width, height := CanvasSize(d, opts.Padding)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `<?xml version="1.0" encoding="utf-8" ?>`)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" version="1.2" baseProfile="tiny" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintln(bw, `  <g shape-rendering="crispEdges">`)

	d.Each(func(ref geom.StrokeRef) {
		ins := Instructions(ref.Stroke, opts.CloseTol)
		if len(ins) == 0 {
			return
		}
		c := opts.Palette.Hex(ref.PathIndex)
		if opts.Fill {
			fmt.Fprintf(bw, `    <path d="%s" fill="%s" stroke="none" />`+"\n", PathData(ins), c)
		} else {
			fmt.Fprintf(bw, `    <path d="%s" fill="none" stroke="%s" stroke-width="%s" />`+"\n",
				PathData(ins), c, formatFloat(opts.StrokeWidth))
		}
	})

	fmt.Fprintln(bw, `  </g>`)
	fmt.Fprintln(bw, `</svg>`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}
