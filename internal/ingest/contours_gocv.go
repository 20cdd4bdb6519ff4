//go:build gocv

package ingest

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// findContours extracts contours with OpenCV.
func findContours(img image.Image, opts ImageOptions) ([][]image.Point, error) {
	gray := toGray(img)
	b := gray.Bounds()

	src, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	bin := gocv.NewMat()
	defer bin.Close()

	switch opts.Mode {
	case ModeThreshold:
		gocv.Threshold(src, &bin, float32(opts.Level), 255, gocv.ThresholdBinaryInv)
	default:
		blurred := gocv.NewMat()
		defer blurred.Close()
		if opts.BlurSigma > 0 {
			gocv.GaussianBlur(src, &blurred, image.Point{}, opts.BlurSigma, opts.BlurSigma, gocv.BorderDefault)
		} else {
			src.CopyTo(&blurred)
		}
		gocv.Canny(blurred, &bin, float32(opts.ThresholdLow), float32(opts.ThresholdHigh))
	}

	mode := gocv.RetrievalList
	if opts.ExternalOnly {
		mode = gocv.RetrievalExternal
	}
	contours := gocv.FindContours(bin, mode, gocv.ChainApproxNone)
	defer contours.Close()

	var out [][]image.Point
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if contour.Size() < opts.MinContourPoints {
			continue
		}
		pts := make([]image.Point, contour.Size())
		for j := range pts {
			pts[j] = contour.At(j)
		}
		out = append(out, pts)
	}
	return out, nil
}
