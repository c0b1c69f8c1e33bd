package depth

import (
	"slices"
	"sort"
)

// AreaStyle controls the filled liquidity area.
type AreaStyle struct {
	Fill    string  `json:"fill" yaml:"fill"`
	Stroke  string  `json:"stroke" yaml:"stroke"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// HandleStyle controls one brush handle.
type HandleStyle struct {
	Stroke string `json:"stroke" yaml:"stroke"`
	Fill   string `json:"fill" yaml:"fill"`
}

// BrushStyle controls the selection and its handles.
type BrushStyle struct {
	// SelectionOpacity is applied to the gradient that fills the selection.
	SelectionOpacity float64     `json:"selection_opacity" yaml:"selection_opacity"`
	West             HandleStyle `json:"west" yaml:"west"`
	East             HandleStyle `json:"east" yaml:"east"`
	FocusStroke      string      `json:"focus_stroke" yaml:"focus_stroke"`
}

// Styles is the presentational configuration of a chart.
// It has no effect on behaviour.
type Styles struct {
	Area          AreaStyle  `json:"area" yaml:"area"`
	CurrentMarker string     `json:"current_marker" yaml:"current_marker"`
	Axis          string     `json:"axis" yaml:"axis"`
	Brush         BrushStyle `json:"brush" yaml:"brush"`
}

// SelectionStops returns the gradient running from the west handle colour
// to the east handle colour.
func (s Styles) SelectionStops() []GradientStop {
	return []GradientStop{
		{Offset: 0, Color: s.Brush.West.Stroke, Opacity: s.Brush.SelectionOpacity},
		{Offset: 1, Color: s.Brush.East.Stroke, Opacity: s.Brush.SelectionOpacity},
	}
}

const DefaultScheme = "uniswap"

var schemes = map[string]Styles{
	"uniswap": {
		Area:          AreaStyle{Fill: "#2172E5", Stroke: "#2172E5", Opacity: 0.5},
		CurrentMarker: "#C3C5CB",
		Axis:          "#8F96AC",
		Brush: BrushStyle{
			SelectionOpacity: 0.3,
			West:             HandleStyle{Stroke: "#FD766B", Fill: "#FFFFFF"},
			East:             HandleStyle{Stroke: "#4EEDA0", Fill: "#FFFFFF"},
			FocusStroke:      "#FC72FF",
		},
	},
	"wandb-vibe": {
		Area:          AreaStyle{Fill: "#58D3DB", Stroke: "#229FA8", Opacity: 0.5},
		CurrentMarker: "#FCBC32",
		Axis:          "#8E949E",
		Brush: BrushStyle{
			SelectionOpacity: 0.25,
			West:             HandleStyle{Stroke: "#E180FF", Fill: "#1A1C1F"},
			East:             HandleStyle{Stroke: "#A0E8AF", Fill: "#1A1C1F"},
			FocusStroke:      "#FCBC32",
		},
	},
	"mono": {
		Area:          AreaStyle{Fill: "#9E9E9E", Stroke: "#DADADA", Opacity: 0.4},
		CurrentMarker: "#FFFFFF",
		Axis:          "#8A8A8A",
		Brush: BrushStyle{
			SelectionOpacity: 0.2,
			West:             HandleStyle{Stroke: "#E0E0E0", Fill: "#303030"},
			East:             HandleStyle{Stroke: "#E0E0E0", Fill: "#303030"},
			FocusStroke:      "#FFFFFF",
		},
	},
}

// LookupScheme returns the named colour scheme.
func LookupScheme(name string) (Styles, bool) {
	s, ok := schemes[name]
	return s, ok
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() Styles {
	return schemes[DefaultScheme]
}

// SchemeNames lists the available colour schemes in sorted order.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsScheme reports whether name is a known colour scheme.
func IsScheme(name string) bool {
	return slices.Contains(SchemeNames(), name)
}
