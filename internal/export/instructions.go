// Package export writes drawings out as SVG documents and PNG images.
//
// Every stroke becomes one path: a move to its first point, a line to each
// following point, and a close-path when the stroke's first and last
// points coincide within the closure tolerance. Colours cycle through a
// fixed palette by path index and carry no meaning.
package export

import (
	"strconv"
	"strings"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// Op is a path drawing operation.
type Op byte

const (
	OpMoveTo    Op = 'M'
	OpLineTo    Op = 'L'
	OpClosePath Op = 'Z'
)

// Instruction is one step of a path. Point is unused for OpClosePath.
type Instruction struct {
	Op    Op
	Point geom.Point
}

// Instructions converts a stroke into path instructions. Empty strokes
// produce no instructions.
func Instructions(s geom.Stroke, closeTol float64) []Instruction {
	if len(s) == 0 {
		return nil
	}
	out := make([]Instruction, 0, len(s)+1)
	out = append(out, Instruction{Op: OpMoveTo, Point: s[0]})
	for _, p := range s[1:] {
		out = append(out, Instruction{Op: OpLineTo, Point: p})
	}
	if s.IsClosed(closeTol) {
		out = append(out, Instruction{Op: OpClosePath})
	}
	return out
}

// PathData renders instructions as SVG path data, e.g. "M 0,0 L 10,0 Z".
func PathData(ins []Instruction) string {
	var b strings.Builder
	for i, in := range ins {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(in.Op))
		if in.Op == OpClosePath {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(formatFloat(in.Point.X))
		b.WriteByte(',')
		b.WriteString(formatFloat(in.Point.Y))
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
