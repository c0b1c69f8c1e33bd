package depth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
)

type emissions struct {
	got []depth.Domain
}

func (e *emissions) record(d depth.Domain) { e.got = append(e.got, d) }

func newScenarioEngine(t *testing.T, initial *depth.Domain) (*depth.Engine, *emissions) {
	t.Helper()

	em := &emissions{}
	e := depth.NewEngine(depth.EngineParams{
		ID:                  "test",
		Series:              linearSeries(0, 1000, 100),
		Current:             500,
		Dimensions:          depth.Dimensions{Width: 500, Height: 300},
		Margins:             depth.Margins{Bottom: 20},
		Styles:              depth.DefaultStyles(),
		BrushDomain:         initial,
		OnBrushDomainChange: em.record,
	})
	return e, em
}

func TestEngine_DragEmitsOnceOnRelease(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, nil)
	e.Render()

	require.True(t, e.PointerDown(100))
	for px := 110.0; px <= 300; px += 10 {
		e.PointerMove(px)
		e.RenderIfNeeded()
	}
	assert.Empty(t, em.got, "no emission during movement")

	local := e.LocalSelection()
	require.NotNil(t, local)
	assert.InDelta(t, 200, local[0], 1e-9)
	assert.InDelta(t, 600, local[1], 1e-9)

	d, ok := e.PointerUp()
	require.True(t, ok)
	require.Len(t, em.got, 1)
	assert.InDelta(t, 200, d[0], 1e-9)
	assert.InDelta(t, 600, d[1], 1e-9)
	assert.Equal(t, d, em.got[0])
	assert.Equal(t, depth.BrushCommitted, e.BrushState())
}

func TestEngine_NoEcho(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, nil)
	require.True(t, e.PointerDown(100))
	e.PointerMove(300)
	d, ok := e.PointerUp()
	require.True(t, ok)

	before := e.LocalSelection()
	e.SetBrushDomain(&d)
	e.RenderIfNeeded()

	assert.Equal(t, before, e.LocalSelection())
	assert.Len(t, em.got, 1, "feeding the value back must not emit again")
}

func TestEngine_ReleaseOnExternalValueStillEmits(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, &depth.Domain{200, 600})

	// Grab the middle of the selection and put it back where it was.
	require.True(t, e.PointerDown(200))
	e.PointerMove(260)
	e.PointerMove(200)
	d, ok := e.PointerUp()

	require.True(t, ok)
	require.Len(t, em.got, 1)
	assert.InDelta(t, 200, d[0], 1e-9)
	assert.InDelta(t, 600, d[1], 1e-9)
}

func TestEngine_EveryCompletedGestureEmits(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, &depth.Domain{200, 600})

	// First gesture moves the selection to [300, 700]; the parent has not
	// applied it yet.
	require.True(t, e.PointerDown(200))
	e.PointerMove(250)
	_, ok := e.PointerUp()
	require.True(t, ok)

	// Second gesture moves it back onto the last external value.
	require.True(t, e.PointerDown(250))
	e.PointerMove(200)
	_, ok = e.PointerUp()
	require.True(t, ok)

	require.Len(t, em.got, 2)
	assert.InDelta(t, 300, em.got[0][0], 1e-9)
	assert.InDelta(t, 700, em.got[0][1], 1e-9)
	assert.InDelta(t, 200, em.got[1][0], 1e-9)
	assert.InDelta(t, 600, em.got[1][1], 1e-9)

	// The parent applies both emissions in order and ends on the last one.
	e.SetBrushDomain(&em.got[0])
	e.SetBrushDomain(&em.got[1])
	local := e.LocalSelection()
	require.NotNil(t, local)
	assert.InDelta(t, 200, local[0], 1e-9)
	assert.InDelta(t, 600, local[1], 1e-9)
}

func TestEngine_DegenerateGestureSuppressed(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, &depth.Domain{200, 600})
	e.Render()

	// Click outside the selection starts a collapsed selection.
	require.True(t, e.PointerDown(450))
	scene, _ := e.RenderIfNeeded()
	assert.Equal(t, "none", scene.Brush.Display)

	e.PointerMove(math.NaN())
	scene, _ = e.RenderIfNeeded()
	assert.Equal(t, "none", scene.Brush.Display)

	_, ok := e.PointerUp()
	assert.False(t, ok)
	assert.Empty(t, em.got)

	// The last valid selection is shown again.
	assert.Equal(t, &depth.Domain{200, 600}, e.LocalSelection())
	scene, _ = e.RenderIfNeeded()
	assert.True(t, scene.Brush.Visible())
}

func TestEngine_ZoomReprojectsSelection(t *testing.T) {
	t.Parallel()

	e, _ := newScenarioEngine(t, &depth.Domain{100, 200})
	before := e.Render().Brush
	assert.InDelta(t, 50, before.West.X, 1e-9)
	assert.InDelta(t, 100, before.East.X, 1e-9)

	e.SetZoomTransform(depth.Transform{K: 2, X: 0})
	after, rendered := e.RenderIfNeeded()
	require.True(t, rendered)

	assert.InDelta(t, 100, after.Brush.West.X, 1e-9)
	assert.InDelta(t, 200, after.Brush.East.X, 1e-9)
	assert.InDelta(t, 100, after.X.Invert(after.Brush.West.X), 1e-9)
	assert.InDelta(t, 200, after.X.Invert(after.Brush.East.X), 1e-9)
	assert.Equal(t, &depth.Domain{100, 200}, e.LocalSelection())
}

func TestEngine_EmitUsesScaleAtRelease(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, nil)
	require.True(t, e.PointerDown(100))
	e.PointerMove(300)

	// Zoom lands between the last move and the release.
	e.SetZoomTransform(depth.Transform{K: 2, X: 0})
	d, ok := e.PointerUp()

	require.True(t, ok)
	require.Len(t, em.got, 1)
	assert.InDelta(t, 100, d[0], 1e-9)
	assert.InDelta(t, 300, d[1], 1e-9)
}

func TestEngine_ExternalToggle(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, nil)
	e.Render()
	base := e.Renders()

	sel := depth.Domain{200, 600}
	e.SetBrushDomain(&sel)
	_, r1 := e.RenderIfNeeded()
	e.SetBrushDomain(nil)
	_, r2 := e.RenderIfNeeded()
	e.SetBrushDomain(&depth.Domain{200, 600})
	_, r3 := e.RenderIfNeeded()

	assert.True(t, r1 && r2 && r3)
	assert.Equal(t, base+3, e.Renders())
	assert.Equal(t, &sel, e.LocalSelection())
	assert.Empty(t, em.got)

	// Same value again is not an external change.
	e.SetBrushDomain(&depth.Domain{200, 600})
	_, r4 := e.RenderIfNeeded()
	assert.False(t, r4)
}

func TestEngine_ExternalOverridesGestureInProgress(t *testing.T) {
	t.Parallel()

	e, _ := newScenarioEngine(t, nil)
	require.True(t, e.PointerDown(100))
	e.PointerMove(300)

	e.SetBrushDomain(&depth.Domain{700, 900})
	assert.Equal(t, &depth.Domain{700, 900}, e.LocalSelection())
	assert.Equal(t, depth.BrushDragging, e.BrushState())

	// The gesture keeps its own anchor, so the next move restores the
	// dragged interval and the release emits it.
	e.PointerMove(310)
	local := e.LocalSelection()
	require.NotNil(t, local)
	assert.InDelta(t, 200, local[0], 1e-9)
	assert.InDelta(t, 620, local[1], 1e-9)

	d, ok := e.PointerUp()
	require.True(t, ok)
	assert.InDelta(t, 200, d[0], 1e-9)
	assert.InDelta(t, 620, d[1], 1e-9)
}

func TestEngine_RenderIdempotent(t *testing.T) {
	t.Parallel()

	e, _ := newScenarioEngine(t, &depth.Domain{150, 850})
	e.SetBrushLabels(depth.PercentLabels(500))
	e.ZoomBy(2)

	first := e.Render()
	second := e.Render()
	assert.Equal(t, first, second)

	_, rendered := e.RenderIfNeeded()
	assert.False(t, rendered)
}

func TestEngine_EmptySeriesSkipsRendering(t *testing.T) {
	t.Parallel()

	e, em := newScenarioEngine(t, &depth.Domain{200, 600})
	require.True(t, e.PointerDown(10))
	e.SetSeries(nil)

	scene := e.Render()
	assert.True(t, scene.Empty)
	assert.Equal(t, depth.BrushIdle, e.BrushState())

	_, ok := e.PointerUp()
	assert.False(t, ok)
	assert.False(t, e.PointerDown(10))
	assert.Empty(t, em.got)
}

func TestEngine_PanAndReset(t *testing.T) {
	t.Parallel()

	e, _ := newScenarioEngine(t, nil)
	e.ZoomBy(2)
	visible, ok := e.VisibleDomain()
	require.True(t, ok)
	assert.InDelta(t, 250, visible[0], 1e-9)
	assert.InDelta(t, 750, visible[1], 1e-9)

	e.Pan(50)
	visible, _ = e.VisibleDomain()
	assert.InDelta(t, 300, visible[0], 1e-9)

	e.ResetZoom()
	visible, _ = e.VisibleDomain()
	assert.Equal(t, depth.Domain{0, 1000}, visible)
}
