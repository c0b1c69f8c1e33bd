package depth

import (
	"fmt"
	"math"
)

// DefaultTickCount is the approximate number of bottom-axis ticks.
const DefaultTickCount = 6

const displayNone = "none"

// GradientStop is a single colour stop of a linear gradient.
type GradientStop struct {
	Offset  float64
	Color   string
	Opacity float64
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies within the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Defs are the chart-scoped definitions shared by the drawing elements.
// Identifiers are namespaced by the chart id so several charts can share
// one document.
type Defs struct {
	SelectionGradientID string
	SelectionStops      []GradientStop
	AreaClipID          string
	AreaClip            Rect
	BrushClipID         string
	BrushClip           Rect
}

// Area is the filled liquidity area drawn with a step-after curve.
type Area struct {
	// Points are the visible series samples in pixel space.
	Points   []Point
	Baseline float64
	Path     Path
	Fill     string
	Stroke   string
	Opacity  float64
	ClipID   string
}

// Marker is the vertical line at the current price.
type Marker struct {
	Visible bool
	X       float64
	Y1, Y2  float64
	Stroke  string
}

// Tick is a labelled bottom-axis tick.
type Tick struct {
	Value float64
	X     float64
	Label string
}

// Axis is the bottom price axis.
type Axis struct {
	Y     float64
	X1    float64
	X2    float64
	Ticks []Tick
	Color string
}

// Indicator is an arrow drawn at the chart edge for a handle that is
// zoomed out of view.
type Indicator struct {
	Visible bool
	X, Y    float64
}

// Handle is one positioned brush handle.
type Handle struct {
	Side string
	// Path is the untransformed west glyph; East uses ScaleX = -1.
	Path      Path
	X, Y      float64
	ScaleX    float64
	Stroke    string
	Fill      string
	Label     string
	ShowLabel bool
	InView    bool
	Indicator Indicator
}

// Transform returns the handle placement as an SVG transform attribute.
func (h Handle) Transform() string {
	t := fmt.Sprintf("translate(%s,%s)", formatCoord(h.X), formatCoord(h.Y))
	if h.ScaleX != 1 {
		t += fmt.Sprintf(" scale(%s,1)", formatCoord(h.ScaleX))
	}
	return t
}

// Absolute returns the handle glyph in chart pixel coordinates.
func (h Handle) Absolute() Path {
	return h.Path.Transformed(h.X, h.Y, h.ScaleX)
}

// Brush is the selection overlay.
type Brush struct {
	// Display is "none" when the handles and selection are hidden.
	Display   string
	ClipID    string
	Extent    Rect
	Selection Rect
	Fill      string
	Focus     string
	Domain    Domain
	West      Handle
	East      Handle
}

// Visible reports whether the brush is drawn.
func (b Brush) Visible() bool {
	return b.Display != displayNone
}

// Scene is the renderer-independent description of one render pass.
type Scene struct {
	ID     string
	Width  float64
	Height float64

	// Empty is set when there is nothing to draw.
	Empty bool

	// X is the zoomed horizontal scale used for this pass; Y is the
	// vertical scale.
	X LinearScale
	Y LinearScale

	Defs   Defs
	Area   Area
	Marker Marker
	Axis   Axis
	Brush  Brush
}

// SceneInput is everything a render pass depends on.
type SceneInput struct {
	ID         string
	Series     Series
	Current    float64
	Dimensions Dimensions
	Margins    Margins
	Styles     Styles
	Transform  Transform

	// Selection is the domain interval to position the brush from.
	Selection *Domain
	// HideBrush forces the brush hidden, e.g. for a degenerate live gesture.
	HideBrush bool

	Labels    LabelFunc
	Glyph     HandleGlyph
	TickCount int
}

// BuildScene computes the scene for one render pass. It is a pure
// function of its input: equal inputs produce deeply equal scenes.
//
// Scales are computed first, then the zoom transform is applied to a copy
// of the horizontal scale, and only then is the selection projected.
func BuildScene(in SceneInput) Scene {
	scene := Scene{
		ID:     in.ID,
		Width:  in.Dimensions.Width,
		Height: in.Dimensions.Height,
		Brush:  Brush{Display: displayNone},
	}

	base, ok := BuildScales(in.Series, in.Dimensions, in.Margins)
	if !ok {
		scene.Empty = true
		return scene
	}
	t := in.Transform
	if t.K == 0 {
		t = Identity
	}
	scene.X = t.RescaleX(base.X)
	scene.Y = base.Y

	m := in.Margins
	innerW := in.Dimensions.Width - m.Left - m.Right
	innerH := in.Dimensions.Height - m.Top - m.Bottom

	scene.Defs = Defs{
		SelectionGradientID: in.ID + "-gradient-selection",
		SelectionStops:      in.Styles.SelectionStops(),
		AreaClipID:          in.ID + "-area-clip",
		AreaClip:            Rect{X: m.Left, Y: 0, Width: innerW, Height: in.Dimensions.Height},
		BrushClipID:         in.ID + "-brush-clip",
		BrushClip:           Rect{X: m.Left, Y: m.Top, Width: innerW, Height: innerH},
	}

	scene.Area = buildArea(in, scene.X, scene.Y)
	scene.Area.ClipID = scene.Defs.AreaClipID

	cx := scene.X.Map(in.Current)
	scene.Marker = Marker{
		Visible: isFinite(in.Current) && scene.X.Contains(cx),
		X:       cx,
		Y1:      m.Top,
		Y2:      in.Dimensions.Height - m.Bottom,
		Stroke:  in.Styles.CurrentMarker,
	}
	if !scene.Marker.Visible {
		scene.Marker.X = 0
	}

	scene.Axis = buildAxis(in, scene.X)
	scene.Brush = buildBrush(in, scene.X, scene.Defs)
	return scene
}

func buildArea(in SceneInput, x, y LinearScale) Area {
	area := Area{
		Baseline: y.Map(0),
		Fill:     in.Styles.Area.Fill,
		Stroke:   in.Styles.Area.Stroke,
		Opacity:  in.Styles.Area.Opacity,
	}

	lo, hi := x.RangeMin(), x.RangeMax()
	first, last := -1, -1
	for i, e := range in.Series {
		if !isFinite(e.Price) || !isFinite(e.ActiveLiquidity) {
			continue
		}
		px := x.Map(e.Price)
		if px >= lo && px <= hi {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		// Zoomed between two samples: the step covering the view still counts.
		for i, e := range in.Series {
			if !isFinite(e.Price) || !isFinite(e.ActiveLiquidity) {
				continue
			}
			if x.Map(e.Price) < lo {
				first, last = i, i
			}
		}
		if first < 0 {
			return area
		}
	}
	// Keep the neighbouring samples so the steps entering and leaving the
	// visible range are drawn up to the clip edges.
	if first > 0 {
		first--
	}
	if last < len(in.Series)-1 {
		last++
	}

	for _, e := range in.Series[first : last+1] {
		if !isFinite(e.Price) || !isFinite(e.ActiveLiquidity) {
			continue
		}
		area.Points = append(area.Points, Point{X: x.Map(e.Price), Y: y.Map(e.ActiveLiquidity)})
	}
	area.Path = stepAfterArea(area.Points, area.Baseline)
	return area
}

func stepAfterArea(points []Point, baseline float64) Path {
	if len(points) == 0 {
		return nil
	}
	var p Path
	p = p.moveTo(points[0].X, baseline).lineTo(points[0].X, points[0].Y)
	for i := 1; i < len(points); i++ {
		p = p.lineTo(points[i].X, points[i-1].Y).lineTo(points[i].X, points[i].Y)
	}
	last := points[len(points)-1]
	return p.lineTo(last.X, baseline).close()
}

func buildAxis(in SceneInput, x LinearScale) Axis {
	axis := Axis{
		Y:     in.Dimensions.Height - in.Margins.Bottom,
		X1:    x.RangeMin(),
		X2:    x.RangeMax(),
		Color: in.Styles.Axis,
	}

	n := in.TickCount
	if n <= 0 {
		n = DefaultTickCount
	}
	values := x.Ticks(n)
	step := 0.0
	if len(values) > 1 {
		step = math.Abs(values[1] - values[0])
	}
	for _, v := range values {
		px := x.Map(v)
		if !x.Contains(px) {
			continue
		}
		axis.Ticks = append(axis.Ticks, Tick{Value: v, X: px, Label: formatTick(v, step)})
	}
	return axis
}

func buildBrush(in SceneInput, x LinearScale, defs Defs) Brush {
	m := in.Margins
	innerH := in.Dimensions.Height - m.Top - m.Bottom
	brush := Brush{
		Display: displayNone,
		ClipID:  defs.BrushClipID,
		Extent:  defs.BrushClip,
		Fill:    "url(#" + defs.SelectionGradientID + ")",
		Focus:   in.Styles.Brush.FocusStroke,
	}
	if in.HideBrush || in.Selection == nil || !in.Selection.Valid() {
		return brush
	}

	sel := *in.Selection
	px := PixelInterval{x.Map(sel[0]), x.Map(sel[1])}
	if px.Degenerate() {
		return brush
	}

	brush.Display = ""
	brush.Domain = sel
	brush.Selection = Rect{X: px[0], Y: m.Top, Width: px[1] - px[0], Height: innerH}

	glyph := in.Glyph
	if glyph == (HandleGlyph{}) {
		glyph = DefaultHandleGlyph
	}
	path := glyph.Path(innerH)
	midY := m.Top + innerH/2

	brush.West = Handle{
		Side:   "w",
		Path:   path,
		X:      px[0],
		Y:      m.Top,
		ScaleX: 1,
		Stroke: in.Styles.Brush.West.Stroke,
		Fill:   in.Styles.Brush.West.Fill,
		InView: x.Contains(px[0]),
	}
	brush.East = Handle{
		Side:   "e",
		Path:   path,
		X:      px[1],
		Y:      m.Top,
		ScaleX: -1,
		Stroke: in.Styles.Brush.East.Stroke,
		Fill:   in.Styles.Brush.East.Fill,
		InView: x.Contains(px[1]),
	}
	if !brush.West.InView {
		brush.West.Indicator = Indicator{Visible: true, X: x.RangeMin(), Y: midY}
		if px[0] > x.RangeMax() {
			brush.West.Indicator.X = x.RangeMax()
		}
	}
	if !brush.East.InView {
		brush.East.Indicator = Indicator{Visible: true, X: x.RangeMax(), Y: midY}
		if px[1] < x.RangeMin() {
			brush.East.Indicator.X = x.RangeMin()
		}
	}

	if in.Labels != nil {
		brush.West.Label, brush.West.ShowLabel = in.Labels(sel[0])
		brush.East.Label, brush.East.ShowLabel = in.Labels(sel[1])
	}
	return brush
}
