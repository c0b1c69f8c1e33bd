package depth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
)

func scenarioInput() depth.SceneInput {
	return depth.SceneInput{
		ID:         "chart",
		Series:     linearSeries(0, 1000, 100),
		Current:    500,
		Dimensions: depth.Dimensions{Width: 500, Height: 300},
		Margins:    depth.Margins{Bottom: 20},
		Styles:     depth.DefaultStyles(),
		Transform:  depth.Identity,
	}
}

func TestBuildScene_EmptySeries(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Series = nil
	scene := depth.BuildScene(in)

	assert.True(t, scene.Empty)
	assert.False(t, scene.Brush.Visible())
	assert.Empty(t, scene.Area.Path)
}

func TestBuildScene_DefinitionsNamespacedByID(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.ID = "pool-a"
	scene := depth.BuildScene(in)

	assert.Equal(t, "pool-a-gradient-selection", scene.Defs.SelectionGradientID)
	assert.Equal(t, "pool-a-area-clip", scene.Defs.AreaClipID)
	assert.Equal(t, "pool-a-brush-clip", scene.Defs.BrushClipID)
	assert.Equal(t, "url(#pool-a-gradient-selection)", scene.Brush.Fill)
}

func TestBuildScene_AreaIsStepAfter(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Series = depth.Series{
		{Price: 0, ActiveLiquidity: 10},
		{Price: 500, ActiveLiquidity: 20},
		{Price: 1000, ActiveLiquidity: 5},
	}
	scene := depth.BuildScene(in)

	assert.Equal(t,
		"M0,280 L0,140 L250,140 L250,0 L500,0 L500,210 L500,280 Z",
		scene.Area.Path.String())
	assert.Equal(t, "chart-area-clip", scene.Area.ClipID)
}

func TestBuildScene_AreaFilteredToVisibleRange(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Transform = depth.Transform{K: 5, X: -1000}
	scene := depth.BuildScene(in)

	// Visible domain is [400, 600]; neighbours 300 and 700 are kept so
	// the steps reach the clip edges.
	require.Len(t, scene.Area.Points, 5)
	assert.InDelta(t, 300, scene.X.Invert(scene.Area.Points[0].X), 1e-9)
	assert.InDelta(t, 700, scene.X.Invert(scene.Area.Points[4].X), 1e-9)
}

func TestBuildScene_AreaBetweenSamplesSkipsNonFinitePrices(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Series = depth.Series{
		{Price: 0, ActiveLiquidity: 10},
		{Price: 1000, ActiveLiquidity: 20},
		{Price: 2000, ActiveLiquidity: 5},
		{Price: math.Inf(-1), ActiveLiquidity: 7},
	}
	// Visible domain is [200, 600], strictly between the first two samples.
	in.Transform = depth.Transform{K: 5, X: -250}
	scene := depth.BuildScene(in)

	require.Len(t, scene.Area.Points, 2)
	assert.InDelta(t, 0, scene.X.Invert(scene.Area.Points[0].X), 1e-9)
	assert.InDelta(t, 1000, scene.X.Invert(scene.Area.Points[1].X), 1e-9)
}

func TestBuildScene_MarkerAndAxis(t *testing.T) {
	t.Parallel()

	scene := depth.BuildScene(scenarioInput())

	assert.True(t, scene.Marker.Visible)
	assert.InDelta(t, 250, scene.Marker.X, 1e-9)
	assert.Equal(t, 280.0, scene.Axis.Y)

	var labels []string
	for _, tick := range scene.Axis.Ticks {
		labels = append(labels, tick.Label)
	}
	assert.Equal(t, []string{"0", "200", "400", "600", "800", "1000"}, labels)
}

func TestBuildScene_BrushProjection(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Selection = &depth.Domain{200, 600}
	in.Labels = depth.PercentLabels(500)
	scene := depth.BuildScene(in)

	b := scene.Brush
	require.True(t, b.Visible())
	assert.Equal(t, depth.Rect{X: 100, Y: 0, Width: 200, Height: 280}, b.Selection)
	assert.Equal(t, 100.0, b.West.X)
	assert.Equal(t, 300.0, b.East.X)
	assert.Equal(t, -1.0, b.East.ScaleX)
	assert.Equal(t, b.West.Path, b.East.Path, "east handle reuses the west path")
	assert.Equal(t, "-60.00%", b.West.Label)
	assert.Equal(t, "+20.00%", b.East.Label)
	assert.True(t, b.West.InView)
	assert.False(t, b.East.Indicator.Visible)
}

func TestBuildScene_DegenerateSelectionHidden(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Selection = &depth.Domain{400, 400}
	assert.Equal(t, "none", depth.BuildScene(in).Brush.Display)

	in.Selection = &depth.Domain{200, 600}
	in.HideBrush = true
	assert.Equal(t, "none", depth.BuildScene(in).Brush.Display)
}

func TestBuildScene_OffscreenIndicators(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Selection = &depth.Domain{100, 900}
	in.Transform = depth.Transform{K: 5, X: -1000}
	b := depth.BuildScene(in).Brush

	require.True(t, b.Visible())
	assert.False(t, b.West.InView)
	assert.False(t, b.East.InView)
	assert.True(t, b.West.Indicator.Visible)
	assert.Equal(t, 0.0, b.West.Indicator.X)
	assert.Equal(t, 500.0, b.East.Indicator.X)
}

func TestBuildScene_Idempotent(t *testing.T) {
	t.Parallel()

	in := scenarioInput()
	in.Selection = &depth.Domain{200, 600}
	in.Transform = depth.Transform{K: 2, X: -100}
	in.Labels = depth.PercentLabels(500)

	assert.Equal(t, depth.BuildScene(in), depth.BuildScene(in))
}
