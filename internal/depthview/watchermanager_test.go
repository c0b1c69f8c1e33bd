package depthview_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wandb/depthchart/internal/depthview"
	"github.com/wandb/depthchart/internal/observability"
	"github.com/wandb/depthchart/internal/watcher/watchertest"
)

type fakeWatcher struct {
	paths    []string
	onChange func()
	finished bool
}

func (w *fakeWatcher) Watch(path string, onChange func()) error {
	w.paths = append(w.paths, path)
	w.onChange = onChange
	return nil
}

func (w *fakeWatcher) Finish() { w.finished = true }

func TestWatcherManager_ForwardsChanges(t *testing.T) {
	t.Parallel()

	fw := &fakeWatcher{}
	wm := depthview.NewWatcherManager(fw, make(chan tea.Msg, 1), observability.NewNoOpLogger())

	require.NoError(t, wm.Start("series.csv"))
	require.NoError(t, wm.Start("series.csv"))
	assert.Equal(t, []string{"series.csv"}, fw.paths, "second start is a no-op")
	assert.True(t, wm.IsStarted())

	// Bursts coalesce into one pending reload.
	fw.onChange()
	fw.onChange()
	assert.Equal(t, depthview.FileChangedMsg{}, wm.WaitForMsg()())

	wm.Finish()
	assert.True(t, fw.finished)
	assert.False(t, wm.IsStarted())
}

func TestWatcherManager_StartError(t *testing.T) {
	t.Parallel()

	mw := watchertest.NewMockWatcher(gomock.NewController(t))
	mw.EXPECT().Watch("missing.csv", gomock.Any()).Return(errors.New("no such file"))
	wm := depthview.NewWatcherManager(mw, make(chan tea.Msg, 1), observability.NewNoOpLogger())

	assert.Error(t, wm.Start("missing.csv"))
	assert.False(t, wm.IsStarted())
}

func TestModel_StartsWatcherOnFirstLoad(t *testing.T) {
	t.Parallel()

	mw := watchertest.NewMockWatcher(gomock.NewController(t))
	mw.EXPECT().Watch("series.csv", gomock.Any()).Return(nil).Times(1)
	logger := observability.NewNoOpLogger()
	m := depthview.NewModel(depthview.Params{
		SeriesPath: "series.csv",
		Watcher:    mw,
		Config:     depthview.NewConfigManager(t.TempDir()+"/view.json", logger),
		Logger:     logger,
	})

	_, cmd := m.Update(depthview.SeriesLoadedMsg{Path: "series.csv"})
	require.NotNil(t, cmd)

	m.Update(depthview.SeriesLoadedMsg{Path: "series.csv"})
}
