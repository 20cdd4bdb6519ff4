package export

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a cyclic list of colours.
type Palette []colorful.Color

// defaultHexes are blue, green, red, cyan, magenta, yellow and black.
var defaultHexes = []string{"#0000FF", "#008000", "#FF0000", "#00BFBF", "#BF00BF", "#BFBF00", "#000000"}

// DefaultPalette returns the seven-colour palette used when none is given.
func DefaultPalette() Palette {
	p, err := ParsePalette(defaultHexes)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePalette parses "#RRGGBB" colours into a palette.
func ParsePalette(hexes []string) (Palette, error) {
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid palette colour %q: %w", h, err)
		}
		p[i] = c
	}
	return p, nil
}

// At returns the colour for index i, cycling through the palette. An empty
// palette yields black.
func (p Palette) At(i int) colorful.Color {
	if len(p) == 0 {
		return colorful.Color{}
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// Hex returns the colour for index i as "#rrggbb".
func (p Palette) Hex(i int) string {
	return p.At(i).Hex()
}
