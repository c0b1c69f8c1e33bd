package depthview

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/depthchart/internal/depthsource"
)

const statusPollInterval = 250 * time.Millisecond

// LoadSeries reads the series file in the background.
func LoadSeries(path string) tea.Cmd {
	return func() tea.Msg {
		snap, err := depthsource.Load(path)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("depthview: loading %s: %w", path, err)}
		}
		return SeriesLoadedMsg{Path: path, Snapshot: snap}
	}
}

// WaitForStream blocks until the live feed delivers a snapshot.
func WaitForStream(snapshots <-chan depthsource.Snapshot) tea.Cmd {
	if snapshots == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-snapshots
		if !ok {
			return StreamClosedMsg{}
		}
		return StreamSnapshotMsg{Snapshot: snap}
	}
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return StatusTickMsg{}
	})
}

func windowTitleCmd(title string) tea.Cmd {
	return tea.SetWindowTitle(title)
}
