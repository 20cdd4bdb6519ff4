package export

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// RasterOptions controls PNG rendering.
type RasterOptions struct {
	// Palette colours paths by index. Nil uses DefaultPalette.
	Palette Palette

	// CloseTol is the first/last point distance below which a stroke is
	// drawn closed.
	CloseTol float64

	// LineWidth is the stroke width in output pixels.
	LineWidth float64

	// Padding grows the canvas beyond the largest coordinate, as a
	// fraction of it.
	Padding float64

	// MinSize is the target length of the shorter canvas side. Drawings
	// smaller than this are scaled up by an integer factor.
	MinSize int

	// Grid draws a coordinate grid every GridSpacing drawing units.
	Grid        bool
	GridSpacing int

	// GridColor is "#RRGGBB"; invalid values fall back to red.
	GridColor string

	// ShowCoordinates labels grid intersections with drawing coordinates.
	ShowCoordinates bool
}

// DefaultRasterOptions returns the options used by RenderPNG callers that
// do not care.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Palette:     DefaultPalette(),
		CloseTol:    1e-6,
		LineWidth:   2,
		Padding:     0.1,
		MinSize:     1024,
		GridSpacing: 50,
		GridColor:   "#FF0000",
	}
}

// ScaleFactor returns the integer magnification applied to a canvas of the
// given size: max(1, minSize / min(w, h)).
func ScaleFactor(w, h, minSize int) int {
	short := min(w, h)
	if short <= 0 {
		return 1
	}
	return max(1, minSize/short)
}

// Render draws d onto a white canvas and returns the image.
func Render(d geom.Drawing, opts RasterOptions) (image.Image, error) {
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}
	if opts.LineWidth == 0 {
		opts.LineWidth = 2
	}

	w, h := CanvasSize(d, opts.Padding)
	fact := ScaleFactor(w, h, opts.MinSize)

	dc := gg.NewContext(w*fact, h*fact)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	dc.Scale(float64(fact), float64(fact))
	dc.SetLineWidth(opts.LineWidth)

	var drawErr error
	d.Each(func(ref geom.StrokeRef) {
		if drawErr != nil {
			return
		}
		ins := Instructions(ref.Stroke, opts.CloseTol)
		if len(ins) == 0 {
			return
		}
		dc.SetColor(opts.Palette.At(ref.PathIndex))
		for _, in := range ins {
			switch in.Op {
			case OpMoveTo:
				dc.MoveTo(in.Point.X, in.Point.Y)
			case OpLineTo:
				dc.LineTo(in.Point.X, in.Point.Y)
			case OpClosePath:
				dc.ClosePath()
			}
		}
		if err := dc.Stroke(); err != nil {
			drawErr = fmt.Errorf("failed to stroke path %d: %w", ref.PathID, err)
		}
	})
	if drawErr != nil {
		return nil, drawErr
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("failed to flush drawing: %w", err)
	}

	img := dc.Image()
	if opts.Grid && opts.GridSpacing > 0 {
		img = gridOverlay(img, opts.GridSpacing, fact, opts.ShowCoordinates, opts.GridColor)
	}
	return img, nil
}

// RenderPNG draws d and writes it to w as PNG.
func RenderPNG(w io.Writer, d geom.Drawing, opts RasterOptions) error {
	img, err := Render(d, opts)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
