package depthview

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/observability"
)

const (
	envConfigDir    = "DEPTHCHART_CONFIG_DIR"
	viewConfigName  = "view.json"
	viewConfigDir   = "depthchart"
	DefaultPanStep  = 4 // cells
	MaxMarginCells  = 8
	MinHitTolerance = 0.5
	MaxHitTolerance = 4

	LabelModePercent = "percent"
	LabelModePrice   = "price"
)

// Config stores the terminal view preferences.
type Config struct {
	ColorScheme string `json:"color_scheme"`

	// Margins around the plot, in terminal cells.
	Margins MarginConfig `json:"margins"`

	MinZoom   float64 `json:"min_zoom"`
	MaxZoom   float64 `json:"max_zoom"`
	WheelStep float64 `json:"wheel_step"`

	// PanStep is the number of cells moved per pan key press.
	PanStep int `json:"pan_step"`

	LabelsVisible bool   `json:"labels_visible"`
	LabelMode     string `json:"label_mode"`

	// HandleHitTolerance is the grab distance around a handle, in cells.
	HandleHitTolerance float64 `json:"handle_hit_tolerance"`
}

type MarginConfig struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

func defaultConfig() Config {
	return Config{
		ColorScheme:        depth.DefaultScheme,
		Margins:            MarginConfig{Top: 1, Right: 1, Bottom: 2, Left: 1},
		MinZoom:            depth.DefaultMinZoom,
		MaxZoom:            depth.DefaultMaxZoom,
		WheelStep:          depth.DefaultWheelStep,
		PanStep:            DefaultPanStep,
		LabelsVisible:      true,
		LabelMode:          LabelModePercent,
		HandleHitTolerance: 1,
	}
}

// ConfigManager manages view configuration with thread-safe access
// and automatic persistence to disk.
//
// All setter methods save changes to disk.
type ConfigManager struct {
	mu     sync.RWMutex
	fs     afero.Fs
	path   string
	config Config
	logger *observability.CoreLogger
}

func NewConfigManager(path string, logger *observability.CoreLogger) *ConfigManager {
	return NewConfigManagerFs(afero.NewOsFs(), path, logger)
}

// NewConfigManagerFs is NewConfigManager on the given filesystem.
func NewConfigManagerFs(fs afero.Fs, path string, logger *observability.CoreLogger) *ConfigManager {
	cm := &ConfigManager{
		fs:     fs,
		path:   path,
		config: defaultConfig(),
		logger: logger,
	}
	if err := cm.loadOrCreateConfig(); err != nil {
		cm.logger.Error(fmt.Sprintf("config: error loading or creating: %v", err))
	}
	return cm
}

// loadOrCreateConfig loads the configuration from disk or stores and uses defaults.
func (cm *ConfigManager) loadOrCreateConfig() error {
	data, err := afero.ReadFile(cm.fs, cm.path)
	if os.IsNotExist(err) {
		if dir := filepath.Dir(cm.path); dir != "" {
			_ = cm.fs.MkdirAll(dir, 0o755)
		}
		return cm.save()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &cm.config); err != nil {
		return err
	}
	cm.normalizeConfig()
	return nil
}

// normalizeConfig ensures all config values are within valid ranges.
func (cm *ConfigManager) normalizeConfig() {
	c := &cm.config

	if !depth.IsScheme(c.ColorScheme) {
		c.ColorScheme = depth.DefaultScheme
	}

	c.Margins.Top = clamp(c.Margins.Top, 0, MaxMarginCells)
	c.Margins.Right = clamp(c.Margins.Right, 0, MaxMarginCells)
	c.Margins.Bottom = clamp(c.Margins.Bottom, 1, MaxMarginCells)
	c.Margins.Left = clamp(c.Margins.Left, 0, MaxMarginCells)

	if c.MinZoom <= 0 || c.MaxZoom <= 0 || c.MinZoom > c.MaxZoom {
		c.MinZoom, c.MaxZoom = depth.DefaultMinZoom, depth.DefaultMaxZoom
	}
	if c.WheelStep <= 0 || c.WheelStep > 1 {
		c.WheelStep = depth.DefaultWheelStep
	}
	if c.PanStep <= 0 {
		c.PanStep = DefaultPanStep
	}
	if c.LabelMode != LabelModePercent && c.LabelMode != LabelModePrice {
		c.LabelMode = LabelModePercent
	}
	if c.HandleHitTolerance < MinHitTolerance || c.HandleHitTolerance > MaxHitTolerance {
		c.HandleHitTolerance = 1
	}
}

func clamp(val, minimum, maximum int) int {
	if val < minimum {
		return minimum
	}
	if val > maximum {
		return maximum
	}
	return val
}

// save writes the config through a temporary file and a rename.
//
// Callers must hold the lock or own the manager exclusively.
func (cm *ConfigManager) save() error {
	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return err
	}
	tmp := cm.path + ".tmp"
	if err := afero.WriteFile(cm.fs, tmp, data, 0o644); err != nil {
		return err
	}
	return cm.fs.Rename(tmp, cm.path)
}

// Snapshot returns a copy of the current configuration.
func (cm *ConfigManager) Snapshot() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Path returns the file the configuration is stored in.
func (cm *ConfigManager) Path() string {
	return cm.path
}

func (cm *ConfigManager) ColorScheme() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.ColorScheme
}

// SetColorScheme stores a known colour scheme.
func (cm *ConfigManager) SetColorScheme(name string) error {
	if !depth.IsScheme(name) {
		return fmt.Errorf("config: unknown color scheme %q", name)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.ColorScheme = name
	return cm.save()
}

// NextColorScheme advances to the next scheme in sorted order and
// returns its name.
func (cm *ConfigManager) NextColorScheme() (string, error) {
	names := depth.SchemeNames()
	cm.mu.Lock()
	defer cm.mu.Unlock()

	next := names[0]
	for i, name := range names {
		if name == cm.config.ColorScheme {
			next = names[(i+1)%len(names)]
			break
		}
	}
	cm.config.ColorScheme = next
	return next, cm.save()
}

func (cm *ConfigManager) Styles() depth.Styles {
	styles, ok := depth.LookupScheme(cm.ColorScheme())
	if !ok {
		return depth.DefaultStyles()
	}
	return styles
}

func (cm *ConfigManager) Margins() depth.Margins {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	m := cm.config.Margins
	return depth.Margins{
		Top:    float64(m.Top),
		Right:  float64(m.Right),
		Bottom: float64(m.Bottom),
		Left:   float64(m.Left),
	}
}

// ZoomExtent returns the allowed zoom scale range.
func (cm *ConfigManager) ZoomExtent() (float64, float64) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.MinZoom, cm.config.MaxZoom
}

// SetZoomExtent stores the allowed zoom scale range.
func (cm *ConfigManager) SetZoomExtent(minK, maxK float64) error {
	if minK <= 0 || maxK <= 0 || minK > maxK {
		return errors.New("config: zoom extent must satisfy 0 < min <= max")
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.MinZoom, cm.config.MaxZoom = minK, maxK
	return cm.save()
}

func (cm *ConfigManager) WheelStep() float64 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.WheelStep
}

func (cm *ConfigManager) PanStep() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.PanStep
}

func (cm *ConfigManager) HandleHitTolerance() float64 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.HandleHitTolerance
}

func (cm *ConfigManager) LabelsVisible() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.LabelsVisible
}

// ToggleLabels flips handle label visibility and returns the new value.
func (cm *ConfigManager) ToggleLabels() (bool, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.LabelsVisible = !cm.config.LabelsVisible
	return cm.config.LabelsVisible, cm.save()
}

func (cm *ConfigManager) LabelMode() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.LabelMode
}

// ToggleLabelMode switches between percent and price labels.
func (cm *ConfigManager) ToggleLabelMode() (string, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.config.LabelMode == LabelModePercent {
		cm.config.LabelMode = LabelModePrice
	} else {
		cm.config.LabelMode = LabelModePercent
	}
	return cm.config.LabelMode, cm.save()
}

// DefaultConfigPath returns where view preferences are stored.
//
// DEPTHCHART_CONFIG_DIR wins; then ~/.config/depthchart, the platform
// user config directory, and finally the temp directory.
func DefaultConfigPath() string {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return filepath.Join(dir, viewConfigName)
	}
	if home, err := homedir.Dir(); err == nil {
		return filepath.Join(home, ".config", viewConfigDir, viewConfigName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, viewConfigDir, viewConfigName)
	}
	return filepath.Join(os.TempDir(), viewConfigDir, viewConfigName)
}

// helpEntries describes the active preferences for the help screen.
func (cm *ConfigManager) helpEntries() []HelpEntry {
	c := cm.Snapshot()
	labels := "hidden"
	if c.LabelsVisible {
		labels = c.LabelMode
	}
	return []HelpEntry{
		{Key: "config file", Description: cm.path},
		{Key: "color scheme", Description: c.ColorScheme},
		{Key: "zoom range", Description: fmt.Sprintf("%g× – %g×", c.MinZoom, c.MaxZoom)},
		{Key: "handle labels", Description: labels},
	}
}
