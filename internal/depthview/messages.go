package depthview

import "github.com/wandb/depthchart/internal/depthsource"

// SeriesLoadedMsg carries a snapshot read from the series file.
type SeriesLoadedMsg struct {
	Path     string
	Snapshot depthsource.Snapshot
}

// StreamSnapshotMsg carries a snapshot received from the live feed.
type StreamSnapshotMsg struct {
	Snapshot depthsource.Snapshot
}

// StreamClosedMsg indicates that the live feed will send nothing more.
type StreamClosedMsg struct{}

// FileChangedMsg indicates that the watched series file has changed.
type FileChangedMsg struct{}

// StatusTickMsg triggers polling of queued status messages.
type StatusTickMsg struct{}

// ErrorMsg wraps an error.
type ErrorMsg struct {
	Err error
}
