package ingest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/detection"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRectangleImage creates an image with a one pixel rectangle outline
func createRectangleImage(width, height int, rectX1, rectY1, rectX2, rectY2 int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for x := rectX1; x <= rectX2; x++ {
		img.Set(x, rectY1, color.Black)
		img.Set(x, rectY2, color.Black)
	}
	for y := rectY1; y <= rectY2; y++ {
		img.Set(rectX1, y, color.Black)
		img.Set(rectX2, y, color.Black)
	}

	return img
}

func TestExtractStrokes_Threshold(t *testing.T) {
	img := createRectangleImage(100, 100, 20, 20, 80, 80)
	opts := DefaultImageOptions()
	opts.Mode = ModeThreshold

	d, err := ExtractStrokes(img, opts)
	if err != nil {
		t.Fatalf("ExtractStrokes failed: %v", err)
	}
	if len(d.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(d.Paths))
	}

	s := d.Paths[0].SubPaths[0].Stroke
	if !s.IsClosed(1e-9) {
		t.Error("traced stroke is not closed")
	}
	// 61 pixels per side, corners shared, plus the closing point
	if len(s) != 241 {
		t.Errorf("got %d points, want 241", len(s))
	}
	b := d.Bounds()
	if b.Min.X != 20 || b.Min.Y != 20 || b.Max.X != 80 || b.Max.Y != 80 {
		t.Errorf("Bounds = %+v", b)
	}

	if got := detection.Classify(s, config.Default()).Tag; got != detection.TagRectangle {
		t.Errorf("traced square classified as %s, want %s", got, detection.TagRectangle)
	}
}

func TestExtractStrokes_Edges(t *testing.T) {
	img := createRectangleImage(100, 100, 20, 20, 80, 80)

	d, err := ExtractStrokes(img, DefaultImageOptions())
	if err != nil {
		t.Fatalf("ExtractStrokes failed: %v", err)
	}
	if len(d.Paths) == 0 {
		t.Fatal("no contours found")
	}

	b := d.Bounds()
	if b.Min.X > 20 || b.Min.Y > 20 || b.Max.X < 80 || b.Max.Y < 80 {
		t.Errorf("contours do not surround the square: %+v", b)
	}
	if b.Min.X < 14 || b.Min.Y < 14 || b.Max.X > 86 || b.Max.Y > 86 {
		t.Errorf("contours stray far from the square: %+v", b)
	}
}

func TestExtractStrokes_EmptyImage(t *testing.T) {
	img := createTestImage(50, 50, color.White)
	for _, mode := range []Mode{ModeEdges, ModeThreshold} {
		opts := DefaultImageOptions()
		opts.Mode = mode
		d, err := ExtractStrokes(img, opts)
		if err != nil {
			t.Fatalf("%s: ExtractStrokes failed: %v", mode, err)
		}
		if len(d.Paths) != 0 {
			t.Errorf("%s: got %d paths from a blank image", mode, len(d.Paths))
		}
	}
}

func TestExtractStrokes_MinContourPoints(t *testing.T) {
	img := createTestImage(40, 40, color.White)
	img.Set(10, 10, color.Black)
	img.Set(11, 10, color.Black)

	opts := DefaultImageOptions()
	opts.Mode = ModeThreshold
	d, err := ExtractStrokes(img, opts)
	if err != nil {
		t.Fatalf("ExtractStrokes failed: %v", err)
	}
	if len(d.Paths) != 0 {
		t.Errorf("speck should be dropped, got %d paths", len(d.Paths))
	}
}

func TestExtractStrokes_ExternalOnly(t *testing.T) {
	img := createRectangleImage(100, 100, 10, 10, 90, 90)
	inner := createRectangleImage(100, 100, 40, 40, 60, 60)
	for y := 40; y <= 60; y++ {
		for x := 40; x <= 60; x++ {
			img.Set(x, y, inner.At(x, y))
		}
	}

	opts := DefaultImageOptions()
	opts.Mode = ModeThreshold

	d, err := ExtractStrokes(img, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Paths) != 1 {
		t.Errorf("external only: got %d paths, want 1", len(d.Paths))
	}

	opts.ExternalOnly = false
	d, err = ExtractStrokes(img, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Paths) != 2 {
		t.Errorf("all contours: got %d paths, want 2", len(d.Paths))
	}
}

func TestExtractStrokes_InvalidOptions(t *testing.T) {
	img := createTestImage(10, 10, color.White)
	tests := []struct {
		name string
		mod  func(*ImageOptions)
	}{
		{"mode", func(o *ImageOptions) { o.Mode = "sobel" }},
		{"thresholds", func(o *ImageOptions) { o.ThresholdLow, o.ThresholdHigh = 200, 100 }},
		{"blur", func(o *ImageOptions) { o.BlurSigma = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultImageOptions()
			tt.mod(&opts)
			if _, err := ExtractStrokes(img, opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTraceBoundary_Block(t *testing.T) {
	m := newMask(5, 5)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			m.set(x, y)
		}
	}
	contours := traceContours(m, 1, false)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := []image.Point{
		{1, 1}, {2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2},
	}
	got := contours[0]
	if len(got) != len(want) {
		t.Fatalf("contour = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTraceBoundary_SinglePixel(t *testing.T) {
	m := newMask(3, 3)
	m.set(1, 1)
	contours := traceContours(m, 1, true)
	if len(contours) != 1 || len(contours[0]) != 1 || contours[0][0] != image.Pt(1, 1) {
		t.Errorf("contours = %v", contours)
	}
}

func TestCleanContour(t *testing.T) {
	in := []image.Point{
		{0, 0}, {1, 0}, {1, 0}, {2, 0}, {3, 0}, {2, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}, {0, 0},
	}
	got := cleanContour(in)
	want := []image.Point{
		{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("cleanContour = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drawing.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return path
}

func TestLoadImage(t *testing.T) {
	path := writePNG(t, createRectangleImage(60, 40, 5, 5, 50, 30))
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Errorf("bounds = %v", b)
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
