package ingest

import (
	"image"
	"math"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// mask is a binary image; true marks ink (or edge) pixels.
type mask struct {
	w, h int
	on   []bool
}

func newMask(w, h int) *mask {
	return &mask{w: w, h: h, on: make([]bool, w*h)}
}

func (m *mask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.on[y*m.w+x]
}

func (m *mask) set(x, y int) {
	m.on[y*m.w+x] = true
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// cannyEdges performs Canny edge detection on an already blurred grayscale
// image and returns the edge mask.
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients on
//     intensities scaled to [0,1]
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  3. Hysteresis thresholding:
//     - Pixels above high/255 are strong edges (always kept)
//     - Pixels between low/255 and high/255 are weak edges, kept only when
//     connected to a strong edge through other weak edges
//     - Pixels below low/255 are discarded
func cannyEdges(gray *image.Gray, low, high int) *mask {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()

	at := func(x, y int) float64 {
		x = geom.Clamp(x, 0, width-1)
		y = geom.Clamp(y, 0, height-1)
		return float64(gray.GrayAt(x+b.Min.X, y+b.Min.Y).Y) / 255.0
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Hypot(gx, gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	mag := func(x, y int) float64 { return magnitude[y*width+x] }

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			m := mag(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag(x-1, y), mag(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag(x-1, y-1), mag(x+1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag(x, y-1), mag(x, y+1)
			default:
				n1, n2 = mag(x+1, y-1), mag(x-1, y+1)
			}

			if m >= n1 && m >= n2 {
				suppressed[y*width+x] = m
			}
		}
	}

	// Hysteresis: grow strong edges through weak ones
	lowThresh := float64(low) / 255.0
	highThresh := float64(high) / 255.0
	edges := newMask(width, height)
	var stack []image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if suppressed[y*width+x] >= highThresh && !edges.at(x, y) {
				edges.set(x, y)
				stack = append(stack, image.Pt(x, y))
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height || edges.at(nx, ny) {
					continue
				}
				if v := suppressed[ny*width+nx]; v > 0 && v >= lowThresh {
					edges.set(nx, ny)
					stack = append(stack, image.Pt(nx, ny))
				}
			}
		}
	}
	return edges
}
