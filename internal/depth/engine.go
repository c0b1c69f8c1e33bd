package depth

import (
	"log/slog"
	"math"
)

// Domain is a price interval [low, high].
type Domain [2]float64

// Low returns the lower bound.
func (d Domain) Low() float64 { return d[0] }

// High returns the upper bound.
func (d Domain) High() float64 { return d[1] }

// Valid reports whether both bounds are finite and ordered.
func (d Domain) Valid() bool {
	return isFinite(d[0]) && isFinite(d[1]) && d[0] <= d[1]
}

// Degenerate reports whether the interval is collapsed or invalid.
func (d Domain) Degenerate() bool {
	return !d.Valid() || d[0] == d[1]
}

// sameDomain compares two optional domains by value.
func sameDomain(a, b *Domain) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneDomain(d *Domain) *Domain {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// Engine reconciles the externally owned selection, the live brush
// gesture and the zoom transform into one consistent Scene.
//
// Engine is not safe for concurrent use; it is driven from a single
// event loop.
type Engine struct {
	id      string
	series  Series
	current float64
	dims    Dimensions
	margins Margins
	styles  Styles
	labels  LabelFunc
	glyph   HandleGlyph
	ticks   int

	onBrushDomainChange func(Domain)

	// prevExternal is the last externally supplied selection.
	prevExternal *Domain
	// local mirrors the selection used to position the brush.
	local *Domain

	zoom  *ZoomController
	brush *BrushController

	dirty   bool
	scene   Scene
	renders int

	logger *slog.Logger
}

// EngineParams configures a new Engine.
type EngineParams struct {
	ID         string
	Series     Series
	Current    float64
	Dimensions Dimensions
	Margins    Margins
	Styles     Styles
	Glyph      HandleGlyph
	TickCount  int

	BrushDomain         *Domain
	BrushLabels         LabelFunc
	OnBrushDomainChange func(Domain)

	Logger *slog.Logger
}

// NewEngine returns an engine at identity zoom. The initial BrushDomain,
// if any, seeds the local selection.
func NewEngine(params EngineParams) *Engine {
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	glyph := params.Glyph
	if glyph == (HandleGlyph{}) {
		glyph = DefaultHandleGlyph
	}

	e := &Engine{
		id:                  params.ID,
		series:              params.Series,
		current:             params.Current,
		dims:                params.Dimensions,
		margins:             params.Margins,
		styles:              params.Styles,
		labels:              params.BrushLabels,
		glyph:               glyph,
		ticks:               params.TickCount,
		onBrushDomainChange: params.OnBrushDomainChange,
		prevExternal:        cloneDomain(params.BrushDomain),
		local:               cloneDomain(params.BrushDomain),
		zoom:                NewZoomController(params.Dimensions.Width, params.Dimensions.Height),
		brush:               NewBrushController(0, 0),
		dirty:               true,
		logger:              logger,
	}
	e.syncBrushExtent()
	return e
}

// SetSeries replaces the series snapshot. A gesture in progress is
// cancelled when the series becomes empty.
func (e *Engine) SetSeries(series Series) {
	e.series = series
	if len(series) == 0 {
		e.brush.Cancel()
	}
	e.dirty = true
}

// Series returns the current series snapshot.
func (e *Engine) Series() Series { return e.series }

// SetCurrent moves the current price marker.
func (e *Engine) SetCurrent(current float64) {
	if e.current == current {
		return
	}
	e.current = current
	e.dirty = true
}

// Current returns the current price.
func (e *Engine) Current() float64 { return e.current }

// SetDimensions resizes the chart. The zoom envelope and brush extent
// follow the new size.
func (e *Engine) SetDimensions(dims Dimensions) {
	if e.dims == dims {
		return
	}
	e.dims = dims
	e.zoom.SetViewport(dims.Width, dims.Height)
	e.syncBrushExtent()
	e.dirty = true
}

// Dimensions returns the chart size.
func (e *Engine) Dimensions() Dimensions { return e.dims }

// SetMargins changes the chart insets.
func (e *Engine) SetMargins(margins Margins) {
	if e.margins == margins {
		return
	}
	e.margins = margins
	e.syncBrushExtent()
	e.dirty = true
}

// Margins returns the chart insets.
func (e *Engine) Margins() Margins { return e.margins }

// SetStyles changes the presentational configuration.
func (e *Engine) SetStyles(styles Styles) {
	e.styles = styles
	e.dirty = true
}

// SetID changes the namespace of generated definitions.
func (e *Engine) SetID(id string) {
	if e.id == id {
		return
	}
	e.id = id
	e.dirty = true
}

// ID returns the definition namespace.
func (e *Engine) ID() string { return e.id }

// SetBrushLabels replaces the handle label formatter.
func (e *Engine) SetBrushLabels(labels LabelFunc) {
	e.labels = labels
	e.dirty = true
}

// SetTickCount sets the approximate number of axis ticks.
func (e *Engine) SetTickCount(n int) {
	if n != e.ticks {
		e.ticks = n
		e.dirty = true
	}
}

// SetOnBrushDomainChange replaces the outward selection callback.
func (e *Engine) SetOnBrushDomainChange(fn func(Domain)) {
	e.onBrushDomainChange = fn
	e.dirty = true
}

// SetBrushDomain feeds the externally owned selection into the engine.
//
// A value equal to the previously observed external value is ignored.
// Otherwise, if it differs from the local selection, it replaces it, even
// while a gesture is in progress. A nil value clears the selection.
func (e *Engine) SetBrushDomain(d *Domain) {
	if sameDomain(d, e.prevExternal) {
		return
	}
	e.prevExternal = cloneDomain(d)
	e.dirty = true

	if sameDomain(d, e.local) {
		return
	}
	if e.brush.Dragging() {
		e.logger.Debug("depth: external selection overrides gesture in progress",
			"id", e.id, "mode", e.brush.Mode().String())
	}
	e.local = cloneDomain(d)
	if e.local == nil {
		e.brush.Clear()
	}
}

// BrushDomain returns the last externally supplied selection.
func (e *Engine) BrushDomain() *Domain { return cloneDomain(e.prevExternal) }

// LocalSelection returns the selection the brush is positioned from.
func (e *Engine) LocalSelection() *Domain { return cloneDomain(e.local) }

// Zoom returns the zoom transform currently applied.
func (e *Engine) Zoom() Transform { return e.zoom.Transform() }

// SetZoomTransform replaces the zoom transform, subject to its constraints.
func (e *Engine) SetZoomTransform(t Transform) {
	e.markIf(e.zoom.SetTransform(t))
}

// SetZoomExtent changes the allowed zoom scale range.
func (e *Engine) SetZoomExtent(minK, maxK float64) {
	before := e.zoom.Transform()
	e.zoom.SetScaleExtent(minK, maxK)
	e.markIf(before != e.zoom.Transform())
}

// SetWheelStep sets the zoom delta per wheel notch.
func (e *Engine) SetWheelStep(step float64) {
	e.zoom.SetWheelStep(step)
}

// ZoomBy scales the view by k around the centre of the plot.
func (e *Engine) ZoomBy(k float64) {
	e.markIf(e.zoom.ScaleBy(k, e.plotCentre()))
}

// Wheel zooms by a number of wheel notches around pixel px.
func (e *Engine) Wheel(steps, px float64) {
	e.markIf(e.zoom.Wheel(steps, px))
}

// Pan shifts the view by dx screen pixels. Positive dx reveals higher prices.
func (e *Engine) Pan(dx float64) {
	t := e.zoom.Transform()
	e.markIf(e.zoom.TranslateBy(-dx / t.K))
}

// ResetZoom returns to the identity transform.
func (e *Engine) ResetZoom() {
	e.markIf(e.zoom.Reset())
}

// PointerDown starts a brush gesture at pixel px. Returns false when the
// pointer is outside the brushable area or there is nothing to brush.
func (e *Engine) PointerDown(px float64) bool {
	x, ok := e.xScale()
	if !ok {
		return false
	}
	var shown *PixelInterval
	if e.local != nil && e.local.Valid() {
		iv := PixelInterval{x.Map(e.local[0]), x.Map(e.local[1])}
		shown = &iv
	}
	if !e.brush.PointerDown(px, shown) {
		return false
	}
	e.dirty = true
	return true
}

// PointerMove updates the gesture in progress. The local selection follows
// the pointer; nothing is emitted.
func (e *Engine) PointerMove(px float64) {
	live, ok := e.brush.PointerMove(px)
	if !ok {
		return
	}
	e.dirty = true
	if live.Degenerate() {
		return
	}
	x, ok := e.xScale()
	if !ok {
		return
	}
	d := Domain{x.Invert(live[0]), x.Invert(live[1])}
	e.local = &d
}

// PointerUp completes the gesture. The final interval is inverted through
// the scale active now and emitted once unless it is degenerate. Returns
// the emitted domain.
func (e *Engine) PointerUp() (Domain, bool) {
	final, ok := e.brush.PointerUp()
	e.dirty = true
	if !ok {
		return Domain{}, false
	}
	x, ok := e.xScale()
	if !ok {
		return Domain{}, false
	}

	d := Domain{x.Invert(final[0]), x.Invert(final[1])}
	if d.Degenerate() {
		return Domain{}, false
	}
	e.local = &d

	e.logger.Debug("depth: brush committed", "id", e.id, "low", d[0], "high", d[1])
	if e.onBrushDomainChange != nil {
		e.onBrushDomainChange(d)
	}
	return d, true
}

// CancelGesture drops the gesture in progress without emitting.
func (e *Engine) CancelGesture() {
	if e.brush.Dragging() {
		e.brush.Cancel()
		e.dirty = true
	}
}

// BrushState returns the brush lifecycle state.
func (e *Engine) BrushState() BrushState { return e.brush.State() }

// BrushMode returns the mode of the gesture in progress.
func (e *Engine) BrushMode() BrushMode { return e.brush.Mode() }

// HitTest returns the mode a pointer-down at px would start.
func (e *Engine) HitTest(px float64) BrushMode {
	x, ok := e.xScale()
	if !ok {
		return BrushModeNone
	}
	var shown *PixelInterval
	if e.local != nil && e.local.Valid() {
		iv := PixelInterval{x.Map(e.local[0]), x.Map(e.local[1])}
		shown = &iv
	}
	return e.brush.HitTest(px, shown)
}

// SetHandleHitTolerance sets the handle grab distance in pixels.
func (e *Engine) SetHandleHitTolerance(px float64) {
	e.brush.SetHitTolerance(px)
}

// Dirty reports whether an input changed since the last render.
func (e *Engine) Dirty() bool { return e.dirty }

// Render runs a render pass unconditionally and returns the scene.
func (e *Engine) Render() Scene {
	e.scene = BuildScene(e.sceneInput())
	e.dirty = false
	e.renders++
	return e.scene
}

// RenderIfNeeded renders only when an input changed since the last pass.
// Returns the current scene and whether a pass ran.
func (e *Engine) RenderIfNeeded() (Scene, bool) {
	if !e.dirty {
		return e.scene, false
	}
	return e.Render(), true
}

// Scene returns the scene of the last render pass.
func (e *Engine) Scene() Scene { return e.scene }

// Renders returns the number of render passes run so far.
func (e *Engine) Renders() int { return e.renders }

// PriceAt converts a pixel coordinate to a price using the current scale.
func (e *Engine) PriceAt(px float64) (float64, bool) {
	x, ok := e.xScale()
	if !ok {
		return math.NaN(), false
	}
	return x.Invert(px), true
}

// PixelOf converts a price to a pixel coordinate using the current scale.
func (e *Engine) PixelOf(price float64) (float64, bool) {
	x, ok := e.xScale()
	if !ok {
		return math.NaN(), false
	}
	return x.Map(price), true
}

// VisibleDomain returns the price range currently on screen.
func (e *Engine) VisibleDomain() (Domain, bool) {
	x, ok := e.xScale()
	if !ok {
		return Domain{}, false
	}
	return Domain{x.Domain[0], x.Domain[1]}, true
}

// FullDomain returns the price range of the series.
func (e *Engine) FullDomain() (Domain, bool) {
	s, ok := BuildScales(e.series, e.dims, e.margins)
	if !ok {
		return Domain{}, false
	}
	return Domain{s.X.Domain[0], s.X.Domain[1]}, true
}

func (e *Engine) sceneInput() SceneInput {
	hide := false
	if live, ok := e.brush.Live(); ok && live.Degenerate() {
		hide = true
	}
	return SceneInput{
		ID:         e.id,
		Series:     e.series,
		Current:    e.current,
		Dimensions: e.dims,
		Margins:    e.margins,
		Styles:     e.styles,
		Transform:  e.zoom.Transform(),
		Selection:  cloneDomain(e.local),
		HideBrush:  hide,
		Labels:     e.labels,
		Glyph:      e.glyph,
		TickCount:  e.ticks,
	}
}

// xScale returns the zoomed horizontal scale for the current inputs.
func (e *Engine) xScale() (LinearScale, bool) {
	s, ok := BuildScales(e.series, e.dims, e.margins)
	if !ok {
		return LinearScale{}, false
	}
	return e.zoom.Transform().RescaleX(s.X), true
}

func (e *Engine) syncBrushExtent() {
	e.brush.SetExtent(e.margins.Left, e.dims.Width-e.margins.Right)
}

func (e *Engine) plotCentre() float64 {
	return (e.margins.Left + e.dims.Width - e.margins.Right) / 2
}

func (e *Engine) markIf(changed bool) {
	if changed {
		e.dirty = true
	}
}
