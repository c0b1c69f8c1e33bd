package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/depthchart/internal/observability"
)

const defaultPollingPeriod = 500 * time.Millisecond

type watcher struct {
	sync.Mutex
	logger     *observability.CoreLogger
	delegate   *poller.Watcher
	wg         *sync.WaitGroup
	handlers   map[string]*handler
	isFinished bool

	pollingPeriod time.Duration
	settle        time.Duration
}

type handler struct {
	onChange func()
	pending  *time.Timer
}

func newWatcher(params Params) *watcher {
	if params.PollingPeriod == 0 {
		params.PollingPeriod = defaultPollingPeriod
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}

	return &watcher{
		logger:        params.Logger,
		wg:            &sync.WaitGroup{},
		handlers:      make(map[string]*handler),
		pollingPeriod: params.PollingPeriod,
		settle:        params.Settle,
	}
}

func (w *watcher) Watch(path string, onChange func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watcher: %v", err)
	}

	w.Lock()
	defer w.Unlock()

	if w.isFinished {
		return fmt.Errorf("watcher: tried to call Watch() after Finish()")
	}

	if w.delegate == nil {
		if err := w.startWatcher(); err != nil {
			return err
		}
	}

	if err := w.delegate.Add(absPath); err != nil {
		return fmt.Errorf("watcher: %v", err)
	}
	w.handlers[absPath] = &handler{onChange: onChange}

	return nil
}

func (w *watcher) Finish() {
	w.Lock()
	w.isFinished = true
	delegate := w.delegate
	for _, h := range w.handlers {
		if h.pending != nil {
			h.pending.Stop()
		}
	}
	w.Unlock()

	if delegate != nil {
		delegate.Close()
	}
	w.wg.Wait()
}

func (w *watcher) startWatcher() error {
	w.delegate = poller.New()
	// The poller sometimes reports Create for files that already exist, so
	// Write and Create are handled the same way.
	w.delegate.FilterOps(poller.Write, poller.Create)

	grp, ctx := errgroup.WithContext(context.Background())
	w.wg.Add(2)

	grp.Go(func() error {
		defer w.wg.Done()
		w.loopWatchFiles(ctx)
		return nil
	})

	grp.Go(func() error {
		defer w.wg.Done()
		return w.delegate.Start(w.pollingPeriod)
	})

	// Close() is a no-op until Start() is looping, so wait for it (or for
	// its failure) before handing control back.
	started := make(chan struct{})
	go func() {
		w.delegate.Wait()
		close(started)
	}()
	select {
	case <-started:
	case <-ctx.Done():
		return grp.Wait()
	}

	return nil
}

// loopWatchFiles dispatches file events until the poller closes.
//
// ctx ends the loop if the poller fails to start, in which case none of
// its channels ever receive.
func (w *watcher) loopWatchFiles(ctx context.Context) {
	for {
		select {
		case event := <-w.delegate.Event:
			if event.IsDir() {
				continue
			}
			w.onChange(event.Path)

		case err := <-w.delegate.Error:
			w.logger.CaptureError(fmt.Errorf("watcher: error in file watcher: %v", err))

		case <-w.delegate.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *watcher) onChange(path string) {
	w.Lock()
	h := w.handlers[path]
	if h == nil || w.isFinished {
		w.Unlock()
		return
	}
	if w.settle > 0 {
		if h.pending == nil {
			h.pending = time.AfterFunc(w.settle, func() { w.fire(path) })
		} else {
			h.pending.Reset(w.settle)
		}
		w.Unlock()
		return
	}
	w.Unlock()

	h.onChange()
}

// fire runs a settled callback unless the watcher finished meanwhile.
func (w *watcher) fire(path string) {
	w.Lock()
	h := w.handlers[path]
	finished := w.isFinished
	w.Unlock()

	if h != nil && !finished {
		w.logger.Debug("watcher: file settled", "path", path)
		h.onChange()
	}
}
