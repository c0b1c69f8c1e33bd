package depthview

import (
	"math"
	"sort"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wandb/depthchart/internal/depth"
)

const (
	runeHandleBar = '┃'
	runeMarker    = '│'
	runeAxis      = '─'
	runeTick      = '┬'
	runeWestArrow = '◀'
	runeEastArrow = '▶'
)

// gripSegments is the number of line segments per grip corner curve.
const gripSegments = 4

// renderScene projects a scene onto a terminal canvas where one cell is
// one horizontal and one vertical scene unit.
func renderScene(scene depth.Scene, cs chartStyles) string {
	w, h := int(scene.Width), int(scene.Height)
	if w <= 0 || h <= 0 {
		return ""
	}
	cv := canvas.New(w, h)
	if scene.Empty {
		return cv.View()
	}

	drawArea(&cv, scene, cs)
	if scene.Marker.Visible {
		drawMarker(&cv, scene.Marker, cs)
	}
	drawAxis(&cv, scene.Axis, cs)

	if scene.Brush.Visible() {
		drawSelection(&cv, scene, cs)
		drawHandle(&cv, scene.Brush.West, scene, cs.west, cs.westLabel, cs)
		drawHandle(&cv, scene.Brush.East, scene, cs.east, cs.eastLabel, cs)
	}
	return cv.View()
}

// drawArea fills every plot column with the step value in effect at the
// column centre.
func drawArea(cv *canvas.Model, scene depth.Scene, cs chartStyles) {
	pts := scene.Area.Points
	if len(pts) == 0 {
		return
	}
	clip := scene.Defs.AreaClip
	baseline := scene.Area.Baseline
	bottom := int(math.Ceil(baseline)) - 1

	lo, hi := cellSpan(clip.X, clip.X+clip.Width, cv.Width())
	for col := lo; col < hi; col++ {
		x := float64(col) + 0.5
		if x < pts[0].X || x > pts[len(pts)-1].X {
			continue
		}
		// Last sample at or before the column centre.
		i := sort.Search(len(pts), func(i int) bool { return pts[i].X > x }) - 1
		if i < 0 {
			continue
		}
		v := baseline - pts[i].Y
		if v <= 0 || bottom < 0 {
			continue
		}
		graph.DrawColumnBottomToTop(cv, canvas.Point{X: col, Y: bottom}, v, cs.area)
	}
}

func drawMarker(cv *canvas.Model, m depth.Marker, cs chartStyles) {
	col := clampCell(int(math.Floor(m.X)), cv.Width())
	for row := int(m.Y1); row < int(m.Y2) && row < cv.Height(); row++ {
		cv.SetRuneWithStyle(canvas.Point{X: col, Y: row}, runeMarker, cs.marker)
	}
}

func drawAxis(cv *canvas.Model, axis depth.Axis, cs chartStyles) {
	row := int(axis.Y)
	if row < 0 || row >= cv.Height() {
		return
	}
	lo, hi := cellSpan(axis.X1, axis.X2, cv.Width())
	for col := lo; col < hi; col++ {
		cv.SetRuneWithStyle(canvas.Point{X: col, Y: row}, runeAxis, cs.axis)
	}

	labelRow := row + 1
	nextFree := 0
	for _, tick := range axis.Ticks {
		col := clampCell(int(math.Floor(tick.X)), cv.Width())
		cv.SetRuneWithStyle(canvas.Point{X: col, Y: row}, runeTick, cs.axis)
		if labelRow >= cv.Height() {
			continue
		}
		n := runewidth.StringWidth(tick.Label)
		start := min(max(col-n/2, 0), cv.Width()-n)
		if start < nextFree || start < 0 {
			continue
		}
		cv.SetStringWithStyle(canvas.Point{X: start, Y: labelRow}, tick.Label, cs.tickLabel)
		nextFree = start + n + 1
	}
}

// drawSelection tints the cells covered by the selection with the
// west-to-east gradient.
func drawSelection(cv *canvas.Model, scene depth.Scene, cs chartStyles) {
	sel := scene.Brush.Selection
	clip := scene.Brush.Extent
	x0 := math.Max(sel.X, clip.X)
	x1 := math.Min(sel.X+sel.Width, clip.X+clip.Width)
	lo, hi := cellSpan(x0, x1, cv.Width())
	top, bottom := int(sel.Y), int(math.Ceil(sel.Y+sel.Height))
	for col := lo; col < hi; col++ {
		t := 0.0
		if sel.Width > 0 {
			t = (float64(col) + 0.5 - sel.X) / sel.Width
		}
		bg := cs.selectionColor(t)
		for row := max(top, 0); row < bottom && row < cv.Height(); row++ {
			p := canvas.Point{X: col, Y: row}
			cell := cv.Cell(p)
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			cv.SetCell(p, canvas.NewCellWithStyle(r, cell.Style.Background(bg)))
		}
	}
}

// handleColumn returns the cell a handle bar is drawn in. Both bars sit
// inside the selection.
func handleColumn(h depth.Handle, width int) int {
	col := int(math.Round(h.X))
	if h.ScaleX < 0 {
		col--
	}
	return clampCell(col, width)
}

func drawHandle(cv *canvas.Model, h depth.Handle, scene depth.Scene, s, lblStyle lipgloss.Style, cs chartStyles) {
	w := cv.Width()
	if !h.InView {
		if h.Indicator.Visible {
			drawIndicator(cv, h.Indicator, cs)
		}
		return
	}

	col := handleColumn(h, w)
	drawGrip(cv, h, col, s)

	extent := scene.Brush.Extent
	for row := int(extent.Y); row < int(math.Ceil(extent.Y+extent.Height)) && row < cv.Height(); row++ {
		cv.SetRuneWithStyle(canvas.Point{X: col, Y: row}, runeHandleBar, s)
	}

	if !h.ShowLabel || h.Label == "" {
		return
	}
	row := max(int(extent.Y)-1, 0)
	n := runewidth.StringWidth(h.Label)
	var start int
	if h.ScaleX < 0 {
		start = col + 1
		if start+n > w {
			start = col - n
		}
	} else {
		start = col - n
		if start < 0 {
			start = col + 1
		}
	}
	start = min(max(start, 0), max(w-n, 0))
	cv.SetStringWithStyle(canvas.Point{X: start, Y: row}, h.Label, lblStyle)
}

// drawGrip outlines the handle grip in braille dots, shifted so the bar
// lands on col.
func drawGrip(cv *canvas.Model, h depth.Handle, col int, s lipgloss.Style) {
	w, ht := cv.Width(), cv.Height()
	lines := h.Absolute().Polylines(gripSegments)
	if len(lines) < 2 {
		return
	}
	grid := graph.NewBrailleGrid(w, ht, 0, float64(w), 0, float64(ht))
	dx := float64(col) - h.X
	toGrid := func(p depth.Point) canvas.Point {
		x := math.Min(math.Max(p.X+dx, 0), float64(w)-1e-6)
		y := math.Min(math.Max(float64(ht)-p.Y, 0), float64(ht)-1e-6)
		return grid.GridPoint(canvas.Float64Point{X: x, Y: y})
	}
	// lines[0] is the bar, drawn as box runes instead.
	for _, line := range lines[1:] {
		for i := 0; i+1 < len(line); i++ {
			for _, p := range graph.GetLinePoints(toGrid(line[i]), toGrid(line[i+1])) {
				grid.Set(p)
			}
		}
	}
	graph.DrawBraillePatterns(cv, canvas.Point{X: 0, Y: 0}, grid.BraillePatterns(), s)
}

func drawIndicator(cv *canvas.Model, ind depth.Indicator, cs chartStyles) {
	w := cv.Width()
	r := runeWestArrow
	if ind.X > float64(w)/2 {
		r = runeEastArrow
	}
	col := clampCell(int(math.Floor(ind.X)), w)
	row := clampCell(int(ind.Y), cv.Height())
	cv.SetRuneWithStyle(canvas.Point{X: col, Y: row}, r, cs.indicator)
}

// cellSpan converts the pixel range [x0, x1) to cell columns clamped to width.
func cellSpan(x0, x1 float64, width int) (int, int) {
	lo := max(int(math.Floor(x0)), 0)
	hi := min(int(math.Ceil(x1)), width)
	return lo, hi
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
