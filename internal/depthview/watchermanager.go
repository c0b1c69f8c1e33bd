package depthview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/depthchart/internal/observability"
	"github.com/wandb/depthchart/internal/watcher"
)

// WatcherManager reloads the series file when it changes on disk.
type WatcherManager struct {
	watcher     watcher.Watcher
	started     bool
	watcherChan chan tea.Msg
	logger      *observability.CoreLogger
}

func NewWatcherManager(
	w watcher.Watcher,
	watcherChan chan tea.Msg,
	logger *observability.CoreLogger,
) *WatcherManager {
	return &WatcherManager{
		watcher:     w,
		watcherChan: watcherChan,
		logger:      logger,
	}
}

// Start begins watching path. Calling it again is a no-op.
func (wm *WatcherManager) Start(path string) error {
	if wm.started {
		return nil
	}

	wm.logger.Debug(fmt.Sprintf("watcher: starting for path: %s", path))

	err := wm.watcher.Watch(path, func() {
		select {
		case wm.watcherChan <- FileChangedMsg{}:
		default:
			// A reload is already queued.
			wm.logger.Debug("watcher: reload already pending, dropping FileChangedMsg")
		}
	})
	if err != nil {
		wm.logger.CaptureError(fmt.Errorf("watcher: error starting: %v", err))
		return err
	}

	wm.started = true
	return nil
}

// Finish stops the watcher.
func (wm *WatcherManager) Finish() {
	if !wm.started {
		return
	}
	wm.logger.Debug("watcher: finishing")
	wm.watcher.Finish()
	wm.started = false
}

func (wm *WatcherManager) IsStarted() bool {
	return wm.started
}

// WaitForMsg returns a command that blocks until the next watcher message.
func (wm *WatcherManager) WaitForMsg() tea.Cmd {
	return func() tea.Msg {
		return <-wm.watcherChan
	}
}
