package depthview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/depthchart/internal/depth"
)

// zoomStep is the scale factor of the zoom keys.
const zoomStep = 2

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if handler, ok := m.keyMap[normalizeKey(msg.String())]; ok {
		return handler(m, msg)
	}
	return nil
}

// handleMouseMsg maps terminal mouse events to brush and zoom input.
//
// One cell is one chart pixel. The pointer is captured by a gesture in
// progress, so motion and release are honoured anywhere on screen.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if !m.hasData {
		return nil
	}
	px := float64(msg.X)
	dragging := m.engine.BrushState() == depth.BrushDragging

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if m.inChart(msg.Y) {
			m.engine.Wheel(1, px)
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if m.inChart(msg.Y) {
			m.engine.Wheel(-1, px)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.inChart(msg.Y) {
			m.engine.PointerDown(px)
		}
	case msg.Action == tea.MouseActionMotion && dragging:
		m.engine.PointerMove(px)
	case msg.Action == tea.MouseActionRelease && dragging:
		m.engine.PointerUp()
	}
	return nil
}

// inChart reports whether screen row y lies on the chart.
func (m *Model) inChart(y int) bool {
	return y >= HeaderHeight && y < HeaderHeight+m.chartHeight()
}

func (m *Model) handleQuit(tea.KeyMsg) tea.Cmd {
	m.quitting = true
	m.Finish()
	return tea.Quit
}

func (m *Model) handleReload(tea.KeyMsg) tea.Cmd {
	if m.seriesPath == "" {
		m.printer.Infof("no series file to reload")
		return nil
	}
	return LoadSeries(m.seriesPath)
}

func (m *Model) handleZoomIn(tea.KeyMsg) tea.Cmd {
	m.engine.ZoomBy(zoomStep)
	return nil
}

func (m *Model) handleZoomOut(tea.KeyMsg) tea.Cmd {
	m.engine.ZoomBy(1.0 / zoomStep)
	return nil
}

func (m *Model) handleResetZoom(tea.KeyMsg) tea.Cmd {
	m.engine.ResetZoom()
	return nil
}

func (m *Model) handlePanLeft(tea.KeyMsg) tea.Cmd {
	m.engine.Pan(-float64(m.config.PanStep()))
	return nil
}

func (m *Model) handlePanRight(tea.KeyMsg) tea.Cmd {
	m.engine.Pan(float64(m.config.PanStep()))
	return nil
}

// presetHandler selects ±fraction around the current price.
func presetHandler(fraction float64) func(*Model, tea.KeyMsg) tea.Cmd {
	return func(m *Model, _ tea.KeyMsg) tea.Cmd {
		d, ok := presetDomain(m.engine.Current(), fraction)
		if !ok {
			m.printer.Warnf("no current price for a preset range")
			return nil
		}
		m.setBrushDomain(&d)
		return nil
	}
}

// presetDomain returns [current·(1-fraction), current·(1+fraction)].
func presetDomain(current, fraction float64) (depth.Domain, bool) {
	d := depth.Domain{current * (1 - fraction), current * (1 + fraction)}
	if d[0] > d[1] {
		d[0], d[1] = d[1], d[0]
	}
	if !d.Valid() || d.Degenerate() {
		return depth.Domain{}, false
	}
	return d, true
}

func (m *Model) handleFullRange(tea.KeyMsg) tea.Cmd {
	d, ok := m.engine.FullDomain()
	if !ok {
		return nil
	}
	m.setBrushDomain(&d)
	return nil
}

func (m *Model) handleClearSelection(tea.KeyMsg) tea.Cmd {
	m.setBrushDomain(nil)
	return nil
}

func (m *Model) handleCancelGesture(tea.KeyMsg) tea.Cmd {
	m.engine.CancelGesture()
	return nil
}

func (m *Model) handleCycleScheme(tea.KeyMsg) tea.Cmd {
	name, err := m.config.NextColorScheme()
	if err != nil {
		m.logger.CaptureError(err)
	}
	m.applyScheme()
	m.printer.Infof("colour scheme: %s", name)
	return nil
}

func (m *Model) handleToggleLabels(tea.KeyMsg) tea.Cmd {
	if _, err := m.config.ToggleLabels(); err != nil {
		m.logger.CaptureError(err)
	}
	m.applyLabels()
	return nil
}

func (m *Model) handleToggleLabelMode(tea.KeyMsg) tea.Cmd {
	if _, err := m.config.ToggleLabelMode(); err != nil {
		m.logger.CaptureError(err)
	}
	m.applyLabels()
	return nil
}
