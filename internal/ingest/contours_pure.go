//go:build !gocv

package ingest

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// findContours binarizes img and traces the outer boundary of every blob.
func findContours(img image.Image, opts ImageOptions) ([][]image.Point, error) {
	m := binarize(img, opts)
	return traceContours(m, opts.MinContourPoints, opts.ExternalOnly), nil
}

// binarize turns img into an ink mask according to opts.Mode.
func binarize(img image.Image, opts ImageOptions) *mask {
	gray := imaging.Grayscale(img)

	if opts.Mode == ModeThreshold {
		b := gray.Bounds()
		m := newMask(b.Dx(), b.Dy())
		if opts.Level == 0 {
			return m
		}
		// Inverting makes ink bright, so "darker than Level" becomes
		// "at least 256-Level" for the threshold.
		bin := segment.Threshold(effect.Invert(gray), uint8(256-int(opts.Level)))
		bb := bin.Bounds()
		for y := 0; y < bb.Dy(); y++ {
			for x := 0; x < bb.Dx(); x++ {
				if bin.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y == 255 {
					m.set(x, y)
				}
			}
		}
		return m
	}

	blurred := gray
	if opts.BlurSigma > 0 {
		blurred = imaging.Blur(gray, opts.BlurSigma)
	}
	return cannyEdges(toGray(blurred), opts.ThresholdLow, opts.ThresholdHigh)
}
