// Package watcher notifies on changes to series files.
package watcher

import (
	"time"

	"github.com/wandb/depthchart/internal/observability"
)

//go:generate mockgen -destination=watchertest/mock_watcher.go -package=watchertest . Watcher

// Watcher invokes callbacks when registered files are modified.
type Watcher interface {
	// Watch begins watching the file at the specified path.
	//
	// onChange is usually invoked after the contents of the file may have
	// changed, including when the file is re-created. Rapid successive
	// writes may be reported once.
	Watch(path string, onChange func()) error

	// Finish stops the watcher from emitting any more change events.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often to poll files for updates.
	//
	// If unset, this uses a default value.
	PollingPeriod time.Duration

	// Settle delays the callback until a file has gone this long without
	// another change. Exporters that write a series in several chunks are
	// then reloaded once. Zero reports every change.
	Settle time.Duration
}

func New(params Params) Watcher {
	return newWatcher(params)
}
