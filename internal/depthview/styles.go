package depthview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/wandb/depthchart/internal/depth"
)

// Layout constants
const (
	HeaderHeight    = 1
	StatusBarHeight = 1
	MinChartWidth   = 20
	MinChartHeight  = 6
)

const brandColor = lipgloss.Color("#FCBC32")

// chartBackground is the colour the selection gradient is blended over.
const chartBackground = "#1A1C1F"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor).
			Padding(0, 1)

	headerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#2B3038"}).
			Background(lipgloss.AdaptiveColor{Light: "#4ECDC4", Dark: "#E1F7FA"}).
			Padding(0, 1)

	statusWarnStyle  = statusBarStyle.Foreground(lipgloss.Color("#B54708"))
	statusErrorStyle = statusBarStyle.Foreground(lipgloss.Color("#D92D20")).Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Help screen styles
var (
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Width(20)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(brandColor).
				MarginTop(1).
				MarginBottom(1)

	helpContentStyle = lipgloss.NewStyle().
				MarginLeft(2).
				MarginTop(1)
)

// chartStyles are the cell styles derived from one colour scheme.
type chartStyles struct {
	area       lipgloss.Style
	marker     lipgloss.Style
	axis       lipgloss.Style
	tickLabel  lipgloss.Style
	west       lipgloss.Style
	east       lipgloss.Style
	westLabel  lipgloss.Style
	eastLabel  lipgloss.Style
	indicator  lipgloss.Style
	background colorful.Color

	stops []depth.GradientStop
}

func newChartStyles(s depth.Styles) chartStyles {
	bg, _ := colorful.Hex(chartBackground)
	areaColor := blendHex(s.Area.Fill, chartBackground, s.Area.Opacity)
	return chartStyles{
		area:       lipgloss.NewStyle().Foreground(lipgloss.Color(areaColor)),
		marker:     lipgloss.NewStyle().Foreground(lipgloss.Color(s.CurrentMarker)),
		axis:       lipgloss.NewStyle().Foreground(lipgloss.Color(s.Axis)),
		tickLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color(s.Axis)),
		west:       lipgloss.NewStyle().Foreground(lipgloss.Color(s.Brush.West.Stroke)),
		east:       lipgloss.NewStyle().Foreground(lipgloss.Color(s.Brush.East.Stroke)),
		westLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color(s.Brush.West.Stroke)).Bold(true),
		eastLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color(s.Brush.East.Stroke)).Bold(true),
		indicator:  lipgloss.NewStyle().Foreground(lipgloss.Color(s.Brush.FocusStroke)).Bold(true),
		background: bg,
		stops:      s.SelectionStops(),
	}
}

// selectionColor returns the selection fill at fraction t across the
// selection, already composited over the chart background.
func (cs chartStyles) selectionColor(t float64) lipgloss.Color {
	if len(cs.stops) == 0 {
		return lipgloss.Color(chartBackground)
	}
	first, last := cs.stops[0], cs.stops[len(cs.stops)-1]
	from, err1 := colorful.Hex(first.Color)
	to, err2 := colorful.Hex(last.Color)
	if err1 != nil || err2 != nil {
		return lipgloss.Color(chartBackground)
	}
	t = min(1, max(0, t))
	c := from.BlendLab(to, t)
	opacity := first.Opacity + (last.Opacity-first.Opacity)*t
	return lipgloss.Color(cs.background.BlendRgb(c, opacity).Clamped().Hex())
}

// blendHex composites fg over bg with the given opacity. Invalid colours
// fall back to fg unchanged.
func blendHex(fg, bg string, opacity float64) string {
	f, err := colorful.Hex(fg)
	if err != nil {
		return fg
	}
	b, err := colorful.Hex(bg)
	if err != nil || opacity >= 1 || opacity <= 0 {
		return fg
	}
	// Opacity is floored at 0.6 for terminal cells.
	return b.BlendRgb(f, max(opacity, 0.6)).Clamped().Hex()
}
