package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/watcher"
)

func waitWithDeadline[S any](t *testing.T, c <-chan S, msg string) S {
	t.Helper()
	select {
	case x := <-c:
		return x
	case <-time.After(5 * time.Second):
		t.Fatal("took too long: " + msg)
		panic("unreachable")
	}
}

func newTestWatcher() watcher.Watcher {
	return watcher.New(watcher.Params{PollingPeriod: 10 * time.Millisecond})
}

func TestWatchFile_ReportsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.csv")
	require.NoError(t, os.WriteFile(path, []byte("price,active_liquidity\n"), 0o600))

	w := newTestWatcher()
	defer w.Finish()

	changed := make(chan struct{}, 1)
	require.NoError(t, w.Watch(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	// Make sure the new modification time differs from the recorded one.
	later := time.Now().Add(time.Second)
	require.NoError(t, os.WriteFile(path, []byte("price,active_liquidity\n1,2\n"), 0o600))
	require.NoError(t, os.Chtimes(path, later, later))

	waitWithDeadline(t, changed, "expected change callback")
}

func TestWatch_AfterFinishFails(t *testing.T) {
	w := newTestWatcher()
	w.Finish()

	err := w.Watch(filepath.Join(t.TempDir(), "x.csv"), func() {})
	assert.Error(t, err)
}

func TestWatch_MissingFileFails(t *testing.T) {
	w := newTestWatcher()
	defer w.Finish()

	err := w.Watch(filepath.Join(t.TempDir(), "missing.csv"), func() {})
	assert.Error(t, err)
}

func TestWatchFile_SettleCoalescesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.csv")
	require.NoError(t, os.WriteFile(path, []byte("price,active_liquidity\n"), 0o600))

	w := watcher.New(watcher.Params{
		PollingPeriod: 10 * time.Millisecond,
		Settle:        300 * time.Millisecond,
	})
	defer w.Finish()

	changed := make(chan struct{}, 8)
	require.NoError(t, w.Watch(path, func() { changed <- struct{}{} }))

	base := time.Now()
	for i := 1; i <= 3; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, os.WriteFile(path, []byte("price,active_liquidity\n1,2\n"), 0o600))
		require.NoError(t, os.Chtimes(path, at, at))
		time.Sleep(40 * time.Millisecond)
	}

	waitWithDeadline(t, changed, "expected settled callback")
	select {
	case <-changed:
		t.Fatal("burst should be reported once")
	case <-time.After(500 * time.Millisecond):
	}
}
