package depthview

import (
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/observability"
)

func sceneFor(sel *depth.Domain, t depth.Transform) depth.Scene {
	var series depth.Series
	for p := 0.0; p <= 1000; p += 100 {
		series = append(series, depth.Entry{Price: p, ActiveLiquidity: 10 + p/10})
	}
	return depth.BuildScene(depth.SceneInput{
		ID:         "tui",
		Series:     series,
		Current:    500,
		Dimensions: depth.Dimensions{Width: 60, Height: 20},
		Margins:    depth.Margins{Top: 1, Right: 1, Bottom: 2, Left: 1},
		Styles:     depth.DefaultStyles(),
		Transform:  t,
		Selection:  sel,
		Labels:     depth.PercentLabels(500),
		Glyph:      depth.CompactHandleGlyph,
		TickCount:  5,
	})
}

func TestRenderScene_Size(t *testing.T) {
	t.Parallel()

	out := renderScene(sceneFor(nil, depth.Identity), newChartStyles(depth.DefaultStyles()))
	assert.Equal(t, 20, lipgloss.Height(out))
	assert.Contains(t, out, "─")
	assert.Contains(t, out, "1000")
	assert.NotContains(t, out, "┃", "no handles without a selection")
}

func TestRenderScene_Handles(t *testing.T) {
	t.Parallel()

	out := renderScene(
		sceneFor(&depth.Domain{200, 600}, depth.Identity),
		newChartStyles(depth.DefaultStyles()))

	assert.Contains(t, out, "┃")
	assert.Contains(t, out, "-60.00%")
	assert.Contains(t, out, "+20.00%")
}

func TestRenderScene_OffscreenIndicators(t *testing.T) {
	t.Parallel()

	// Visible range is [400, 600].
	out := renderScene(
		sceneFor(&depth.Domain{100, 900}, depth.Transform{K: 5, X: -120}),
		newChartStyles(depth.DefaultStyles()))

	assert.Contains(t, out, "◀")
	assert.Contains(t, out, "▶")
	assert.NotContains(t, out, "┃")
}

func TestRenderScene_Empty(t *testing.T) {
	t.Parallel()

	scene := depth.BuildScene(depth.SceneInput{Dimensions: depth.Dimensions{Width: 10, Height: 4}})
	out := renderScene(scene, newChartStyles(depth.DefaultStyles()))
	assert.Equal(t, 4, lipgloss.Height(out))
	assert.NotContains(t, out, "─")
	assert.Empty(t, renderScene(depth.Scene{}, newChartStyles(depth.DefaultStyles())))
}

func TestHandleColumn_BarsInsideSelection(t *testing.T) {
	t.Parallel()

	west := depth.Handle{X: 10, ScaleX: 1}
	east := depth.Handle{X: 20, ScaleX: -1}
	assert.Equal(t, 10, handleColumn(west, 60))
	assert.Equal(t, 19, handleColumn(east, 60))
	assert.Equal(t, 59, handleColumn(depth.Handle{X: 70, ScaleX: 1}, 60))
}

func TestSelectionColor_Endpoints(t *testing.T) {
	t.Parallel()

	cs := newChartStyles(depth.DefaultStyles())
	assert.NotEqual(t, cs.selectionColor(0), cs.selectionColor(1))
	assert.Equal(t, cs.selectionColor(-1), cs.selectionColor(0), "clamped")
}

func TestPresetDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  float64
		fraction float64
		want     depth.Domain
		ok       bool
	}{
		{"ten percent", 500, 0.10, depth.Domain{450, 550}, true},
		{"negative price", -100, 0.5, depth.Domain{-150, -50}, true},
		{"zero price", 0, 0.25, depth.Domain{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := presetDomain(tt.current, tt.fraction)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want[0], got[0], 1e-9)
			assert.InDelta(t, tt.want[1], got[1], 1e-9)
		})
	}
}

func TestHelpContent_ListsSettings(t *testing.T) {
	cm := NewConfigManager(filepath.Join(t.TempDir(), "view.json"), observability.NewNoOpLogger())
	require.NoError(t, cm.SetColorScheme("mono"))

	content := NewHelp("1.2.3", cm.helpEntries).generateHelpContent()
	assert.Contains(t, content, "1.2.3")
	assert.Contains(t, content, "Settings")
	assert.Contains(t, content, "mono")
	assert.Contains(t, content, "percent")
	assert.Contains(t, content, cm.Path())
}
