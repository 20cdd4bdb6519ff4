package ingest

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
)

// Mode selects how an image is turned into a binary mask.
type Mode string

const (
	// ModeEdges runs Canny edge detection on the blurred grayscale image.
	ModeEdges Mode = "edges"

	// ModeThreshold marks every pixel darker than Level as ink.
	ModeThreshold Mode = "threshold"
)

// ImageOptions controls contour extraction from a raster image.
type ImageOptions struct {
	// Mode selects edge detection or intensity thresholding.
	Mode Mode `json:"mode"`

	// BlurSigma is the Gaussian sigma applied before edge detection.
	// Zero disables blurring. Threshold mode never blurs.
	BlurSigma float64 `json:"blur_sigma"`

	// ThresholdLow and ThresholdHigh are the Canny hysteresis thresholds
	// (0-255). Typical values: 50 and 150.
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`

	// Level is the intensity (0-255) below which a pixel counts as ink in
	// threshold mode.
	Level uint8 `json:"level"`

	// MinContourPoints drops contours with fewer boundary points.
	MinContourPoints int `json:"min_contour_points"`

	// ExternalOnly drops contours that lie entirely inside the bounding
	// box of another contour.
	ExternalOnly bool `json:"external_only"`
}

// DefaultImageOptions returns options suited to clean line drawings.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		Mode:             ModeEdges,
		BlurSigma:        1.4,
		ThresholdLow:     50,
		ThresholdHigh:    150,
		Level:            128,
		MinContourPoints: 10,
		ExternalOnly:     true,
	}
}

func (o ImageOptions) validate() error {
	switch o.Mode {
	case ModeEdges, ModeThreshold:
	default:
		return fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.ThresholdLow < 0 || o.ThresholdHigh > 255 || o.ThresholdLow > o.ThresholdHigh {
		return fmt.Errorf("invalid thresholds %d/%d", o.ThresholdLow, o.ThresholdHigh)
	}
	if o.BlurSigma < 0 {
		return fmt.Errorf("blur sigma must be non-negative, got %v", o.BlurSigma)
	}
	return nil
}

// LoadImage decodes an image file, applying any EXIF orientation.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// ExtractStrokes traces the line art in img into a drawing with one path per
// contour. Every stroke is closed by repeating its first point.
func ExtractStrokes(img image.Image, opts ImageOptions) (geom.Drawing, error) {
	if err := opts.validate(); err != nil {
		return geom.Drawing{}, err
	}
	if img.Bounds().Empty() {
		return geom.Drawing{}, nil
	}

	contours, err := findContours(img, opts)
	if err != nil {
		return geom.Drawing{}, err
	}

	var d geom.Drawing
	for _, c := range contours {
		c = cleanContour(c)
		if len(c) < opts.MinContourPoints || len(c) == 0 {
			continue
		}
		stroke := make(geom.Stroke, 0, len(c)+1)
		for _, p := range c {
			stroke = append(stroke, geom.Pt(float64(p.X), float64(p.Y)))
		}
		stroke = append(stroke, stroke[0])
		d.Paths = append(d.Paths, geom.Path{
			ID:       len(d.Paths),
			SubPaths: []geom.SubPath{{ID: 0, Stroke: stroke}},
		})
	}

	logging.Logger().Debug("extracted strokes", "mode", opts.Mode, "contours", len(contours), "kept", len(d.Paths))
	return d, nil
}

// cleanContour removes consecutive duplicate points and single-pixel spikes
// (a point whose neighbours on both sides coincide).
func cleanContour(c []image.Point) []image.Point {
	out := dedupe(c)
	n := len(out)
	if n < 3 {
		return out
	}
	cleaned := make([]image.Point, 0, n)
	for i, p := range out {
		prev, next := out[(i+n-1)%n], out[(i+1)%n]
		if prev == next {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return dedupe(cleaned)
}

// dedupe drops consecutive repeats, including a trailing copy of the first
// point.
func dedupe(c []image.Point) []image.Point {
	out := make([]image.Point, 0, len(c))
	for _, p := range c {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// toGray converts img to an 8-bit grayscale image anchored at the origin.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}
