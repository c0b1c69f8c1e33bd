package depthview

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is shown in the help screen but is not
// dispatched through the key map.
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings for help display.
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// ChartKeyBindings returns the key bindings of the chart view.
func ChartKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
				{
					Keys:        []string{"r"},
					Description: "Reload the series file",
					Handler:     (*Model).handleReload,
				},
			},
		},
		{
			Name: "Zoom",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"+", "="},
					Description: "Zoom in",
					Handler:     (*Model).handleZoomIn,
				},
				{
					Keys:        []string{"-", "_"},
					Description: "Zoom out",
					Handler:     (*Model).handleZoomOut,
				},
				{
					Keys:        []string{"0"},
					Description: "Reset zoom",
					Handler:     (*Model).handleResetZoom,
				},
				{
					Keys:        []string{"left", "["},
					Description: "Pan towards lower prices",
					Handler:     (*Model).handlePanLeft,
				},
				{
					Keys:        []string{"right", "]"},
					Description: "Pan towards higher prices",
					Handler:     (*Model).handlePanRight,
				},
			},
		},
		{
			Name: "Range",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"1"},
					Description: "Select ±10% around the current price",
					Handler:     presetHandler(0.10),
				},
				{
					Keys:        []string{"2"},
					Description: "Select ±25% around the current price",
					Handler:     presetHandler(0.25),
				},
				{
					Keys:        []string{"3"},
					Description: "Select ±50% around the current price",
					Handler:     presetHandler(0.50),
				},
				{
					Keys:        []string{"4"},
					Description: "Select the full price range",
					Handler:     (*Model).handleFullRange,
				},
				{
					Keys:        []string{"x", "backspace"},
					Description: "Clear the selection",
					Handler:     (*Model).handleClearSelection,
				},
				{
					Keys:        []string{"esc"},
					Description: "Cancel the drag in progress",
					Handler:     (*Model).handleCancelGesture,
				},
			},
		},
		{
			Name: "Display",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"c"},
					Description: "Cycle colour scheme",
					Handler:     (*Model).handleCycleScheme,
				},
				{
					Keys:        []string{"l"},
					Description: "Toggle handle labels",
					Handler:     (*Model).handleToggleLabels,
				},
				{
					Keys:        []string{"p"},
					Description: "Switch labels between percent and price",
					Handler:     (*Model).handleToggleLabelMode,
				},
			},
		},
		mouseCategory[Model](),
	}
}

// buildKeyMap builds a fast lookup map from key string to handler.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey normalizes KeyMsg.String() into the key used by the maps.
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"drag"},
				Description: "Select a price range",
			},
			{
				Keys:        []string{"drag handle"},
				Description: "Resize the selection",
			},
			{
				Keys:        []string{"drag inside"},
				Description: "Move the selection",
			},
			{
				Keys:        []string{"wheel"},
				Description: "Zoom around the pointer",
			},
		},
	}
}
