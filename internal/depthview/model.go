// Package depthview is the terminal front end of the depth chart.
//
// The Model owns the selected price range and feeds it back into the
// depth.Engine, the same way any embedding application would.
package depthview

import (
	"fmt"
	"math"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/depthsource"
	"github.com/wandb/depthchart/internal/observability"
	"github.com/wandb/depthchart/internal/watcher"
)

// Params configures a new Model.
type Params struct {
	// SeriesPath is the series file to load and watch. Optional when
	// Stream is set.
	SeriesPath string

	// Stream delivers live snapshots.
	Stream <-chan depthsource.Snapshot
	// StreamURL is shown in the header.
	StreamURL string

	// ID namespaces the chart.
	ID string

	// Current overrides the current price found in the data.
	Current *float64

	// Selection is the initially selected price range.
	Selection *depth.Domain

	Version string

	Config  *ConfigManager
	Watcher watcher.Watcher
	Printer *observability.Printer
	Logger  *observability.CoreLogger
}

// Model is the bubbletea model of the depth chart view.
//
// Implements tea.Model.
type Model struct {
	config *ConfigManager
	keyMap map[string]func(*Model, tea.KeyMsg) tea.Cmd

	width, height int

	seriesPath string
	streamURL  string
	stream     <-chan depthsource.Snapshot

	engine *depth.Engine
	styles chartStyles

	// brushDomain is the selected range as owned by this view.
	brushDomain *depth.Domain
	// commits counts selections received from the chart.
	commits int

	currentOverride *float64
	hasData         bool

	help     *HelpModel
	watchers *WatcherManager
	printer  *observability.Printer
	status   observability.PrinterMessage

	quitting bool

	logger *observability.CoreLogger
}

func NewModel(params Params) *Model {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	cfg := params.Config
	if cfg == nil {
		cfg = NewConfigManager(DefaultConfigPath(), logger)
	}
	printer := params.Printer
	if printer == nil {
		printer = observability.NewPrinter()
	}

	m := &Model{
		config:          cfg,
		keyMap:          buildKeyMap(ChartKeyBindings()),
		seriesPath:      params.SeriesPath,
		streamURL:       params.StreamURL,
		stream:          params.Stream,
		styles:          newChartStyles(cfg.Styles()),
		currentOverride: params.Current,
		help:            NewHelp(params.Version, cfg.helpEntries),
		printer:         printer,
		logger:          logger,
	}
	if params.Selection != nil {
		d := *params.Selection
		m.brushDomain = &d
	}
	if params.Watcher != nil {
		m.watchers = NewWatcherManager(params.Watcher, make(chan tea.Msg, 1), logger)
	}

	minK, maxK := cfg.ZoomExtent()
	m.engine = depth.NewEngine(depth.EngineParams{
		ID:                  params.ID,
		Styles:              cfg.Styles(),
		Margins:             cfg.Margins(),
		Glyph:               depth.CompactHandleGlyph,
		BrushDomain:         m.brushDomain,
		OnBrushDomainChange: m.onBrushDomainChange,
		Logger:              logger.Logger,
	})
	m.engine.SetZoomExtent(minK, maxK)
	m.engine.SetWheelStep(cfg.WheelStep())
	m.engine.SetHandleHitTolerance(cfg.HandleHitTolerance())
	return m
}

// Init returns the initial commands of the view.
//
// Implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{windowTitleCmd("depthchart"), statusTickCmd()}
	if m.seriesPath != "" {
		cmds = append(cmds, LoadSeries(m.seriesPath))
	}
	if m.stream != nil {
		cmds = append(cmds, WaitForStream(m.stream))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming events and updates the model accordingly.
//
// Implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")

	if handled, cmd := m.handleHelp(msg); handled {
		return m, cmd
	}

	switch t := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(t)

	case tea.MouseMsg:
		return m, m.handleMouseMsg(t)

	case tea.WindowSizeMsg:
		m.width, m.height = t.Width, t.Height
		m.help.SetSize(t.Width, t.Height)
		m.resizeChart()
		return m, nil

	case SeriesLoadedMsg:
		m.applySnapshot(t.Snapshot)
		if m.watchers != nil && !m.watchers.IsStarted() {
			if err := m.watchers.Start(t.Path); err != nil {
				m.printer.Warnf("not watching %s: %v", t.Path, err)
				return m, nil
			}
			return m, m.watchers.WaitForMsg()
		}
		return m, nil

	case FileChangedMsg:
		cmds := []tea.Cmd{LoadSeries(m.seriesPath)}
		if m.watchers != nil {
			cmds = append(cmds, m.watchers.WaitForMsg())
		}
		return m, tea.Batch(cmds...)

	case StreamSnapshotMsg:
		m.applySnapshot(t.Snapshot)
		return m, WaitForStream(m.stream)

	case StreamClosedMsg:
		m.printer.Warnf("live feed closed")
		m.stream = nil
		return m, nil

	case StatusTickMsg:
		if msgs := m.printer.Read(); len(msgs) > 0 {
			m.status = msgs[len(msgs)-1]
		}
		return m, statusTickCmd()

	case ErrorMsg:
		m.logger.CaptureError(t.Err)
		m.status = observability.PrinterMessage{
			Level:   observability.Error,
			Content: t.Err.Error(),
		}
		return m, nil
	}
	return m, nil
}

// handleHelp toggles the help screen and routes input to it while shown.
func (m *Model) handleHelp(msg tea.Msg) (bool, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "h", "?":
			m.help.Toggle()
			return true, nil
		}
	}
	if m.help.IsActive() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			updated, cmd := m.help.Update(msg)
			m.help = updated
			return true, cmd
		}
	}
	return false, nil
}

// View renders the UI.
//
// Implements tea.Model.View.
func (m *Model) View() string {
	defer m.logPanic("View")

	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.help.IsActive() {
		return lipgloss.JoinVertical(lipgloss.Left, m.help.View(), m.renderStatusBar())
	}

	var chart string
	switch {
	case !m.hasData:
		chart = m.placeholder("Waiting for depth data...")
	case m.chartHeight() < MinChartHeight || m.width < MinChartWidth:
		chart = m.placeholder("Terminal too small")
	default:
		scene, _ := m.engine.RenderIfNeeded()
		chart = renderScene(scene, m.styles)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		chart,
		m.renderStatusBar(),
	)
}

// BrushDomain returns the selected range owned by the view.
func (m *Model) BrushDomain() *depth.Domain {
	if m.brushDomain == nil {
		return nil
	}
	d := *m.brushDomain
	return &d
}

// Commits returns how many selections the chart has reported.
func (m *Model) Commits() int {
	return m.commits
}

// Engine exposes the chart engine.
func (m *Model) Engine() *depth.Engine {
	return m.engine
}

// Finish releases the file watcher.
func (m *Model) Finish() {
	if m.watchers != nil {
		m.watchers.Finish()
	}
}

func (m *Model) onBrushDomainChange(d depth.Domain) {
	m.commits++
	m.logger.Debug("depthview: selection committed", "low", d.Low(), "high", d.High())
	m.setBrushDomain(&d)
}

// setBrushDomain updates the owned selection and passes it to the chart.
func (m *Model) setBrushDomain(d *depth.Domain) {
	if d == nil {
		m.brushDomain = nil
	} else {
		c := *d
		m.brushDomain = &c
	}
	m.engine.SetBrushDomain(m.BrushDomain())
}

func (m *Model) applySnapshot(snap depthsource.Snapshot) {
	current := snap.CurrentOr(math.NaN())
	if m.currentOverride != nil {
		current = *m.currentOverride
	}
	m.engine.SetSeries(snap.Series)
	m.engine.SetCurrent(current)
	m.applyLabels()
	m.hasData = len(snap.Series) > 0
}

func (m *Model) applyLabels() {
	switch {
	case !m.config.LabelsVisible():
		m.engine.SetBrushLabels(nil)
	case m.config.LabelMode() == LabelModePrice:
		m.engine.SetBrushLabels(depth.PriceLabels)
	default:
		m.engine.SetBrushLabels(depth.PercentLabels(m.engine.Current()))
	}
}

func (m *Model) applyScheme() {
	styles := m.config.Styles()
	m.styles = newChartStyles(styles)
	m.engine.SetStyles(styles)
}

func (m *Model) chartHeight() int {
	return max(m.height-HeaderHeight-StatusBarHeight, 0)
}

func (m *Model) resizeChart() {
	h := m.chartHeight()
	m.engine.SetDimensions(depth.Dimensions{
		Width:  float64(m.width),
		Height: float64(h),
	})
	m.engine.SetTickCount(max(2, m.width/12))
}

func (m *Model) placeholder(text string) string {
	return lipgloss.Place(m.width, m.chartHeight(),
		lipgloss.Center, lipgloss.Center,
		labelStyle.Render(text))
}

func (m *Model) renderHeader() string {
	title := headerStyle.Render("depthchart")
	var info []string
	if m.seriesPath != "" {
		info = append(info, m.seriesPath)
	}
	if m.streamURL != "" {
		info = append(info, m.streamURL)
	}
	if id := m.engine.ID(); id != "" {
		info = append(info, "id "+id)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, headerInfoStyle.Render(strings.Join(info, "  ")))
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(header)
}

func (m *Model) renderStatusBar() string {
	var parts []string
	if visible, ok := m.engine.VisibleDomain(); ok {
		parts = append(parts, fmt.Sprintf("view %s–%s", formatPrice(visible.Low()), formatPrice(visible.High())))
	}
	if k := m.engine.Zoom().K; k != 1 {
		parts = append(parts, fmt.Sprintf("zoom %.2fx", k))
	}
	if d := m.brushDomain; d != nil {
		parts = append(parts, fmt.Sprintf("range %s–%s", formatPrice(d.Low()), formatPrice(d.High())))
	}
	if c := m.engine.Current(); m.hasData && !math.IsNaN(c) {
		parts = append(parts, "price "+formatPrice(c))
	}
	if m.status.Content != "" {
		parts = append(parts, m.status.Content)
	}

	style := statusBarStyle
	switch m.status.Level {
	case observability.Warning:
		style = statusWarnStyle
	case observability.Error:
		style = statusErrorStyle
	}
	if m.status.Content == "" {
		style = statusBarStyle
	}
	return style.Width(m.width).MaxWidth(m.width).Render(strings.Join(parts, " │ "))
}

func formatPrice(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}

// logPanic captures a panic in the update loop and panics again.
func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		m.logger.CaptureError(fmt.Errorf("PANIC in %s: %v\nStack trace:\n%s", context, r, debug.Stack()))
		panic(r)
	}
}
