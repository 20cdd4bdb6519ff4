package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// gridOverlay draws grid lines every spacing drawing units on a copy of img,
// which was rendered at fact pixels per unit. Labels show drawing
// coordinates, not pixels.
func gridOverlay(img image.Image, spacing, fact int, showCoordinates bool, gridColorHex string) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gridColor := color.RGBA{255, 0, 0, 128}
	if c, err := colorful.Hex(gridColorHex); err == nil {
		r, g, b := c.RGB255()
		gridColor = color.RGBA{r, g, b, 255}
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	step := spacing * fact

	// Draw vertical lines
	for x := step; x < width; x += step {
		for y := 0; y < height; y++ {
			result.Set(x, y, gridColor)
		}
	}

	// Draw horizontal lines
	for y := step; y < height; y += step {
		for x := 0; x < width; x++ {
			result.Set(x, y, gridColor)
		}
	}

	if showCoordinates {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for y := step; y < height; y += step {
			for x := step; x < width; x += step {
				label := fmt.Sprintf("%d,%d", x/fact, y/fact)
				drawLabel(result, x+2, y+2, label, labelColor, bgColor)
			}
		}
	}

	return result
}

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws a small text label with a background box at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(bounds) {
			img.Set(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, pixel := range line {
					if pixel == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
