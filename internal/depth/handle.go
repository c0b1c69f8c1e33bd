package depth

import "math"

// HandleGlyph describes the brush handle: a vertical bar spanning the chart
// with a rounded grip centred on it.
type HandleGlyph struct {
	GripWidth    float64
	GripHeight   float64
	CornerRadius float64
}

// DefaultHandleGlyph is sized for pixel renderers such as SVG.
var DefaultHandleGlyph = HandleGlyph{
	GripWidth:    12,
	GripHeight:   24,
	CornerRadius: 2,
}

// CompactHandleGlyph is sized for cell-based renderers where one unit is a
// terminal cell.
var CompactHandleGlyph = HandleGlyph{
	GripWidth:    1,
	GripHeight:   2,
	CornerRadius: 0.5,
}

// Width returns the horizontal extent of the glyph from the bar.
func (g HandleGlyph) Width() float64 {
	return g.GripWidth + g.CornerRadius
}

// Path returns the west handle path for a chart of the given pixel height.
// The east handle is the same path mirrored with a horizontal scale of -1.
func (g HandleGlyph) Path(height float64) Path {
	var p Path
	if !(height > 0) {
		return p
	}

	p = p.moveTo(0, 0).lineTo(0, height)

	gh := math.Min(g.GripHeight, height)
	r := math.Max(0, math.Min(g.CornerRadius, gh/2))
	top := (height - gh) / 2
	right := g.GripWidth

	return p.
		moveTo(0, top).
		lineTo(right, top).
		quadTo(right+r, top, right+r, top+r).
		lineTo(right+r, top+gh-r).
		quadTo(right+r, top+gh, right, top+gh).
		lineTo(0, top+gh).
		close()
}
