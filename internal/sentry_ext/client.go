// Package sentry_ext wraps the Sentry SDK with de-duplication of recently
// reported errors.
package sentry_ext

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// DSN is the Data Source Name for the sentry client.
	DSN string
	// Disabled turns reporting off regardless of the DSN.
	Disabled bool
	// AttachStacktrace attaches a stack trace to every event.
	AttachStacktrace bool
	// Release is the version of the application.
	Release string
	// Commit is the git commit hash.
	Commit string
	// Environment is the environment the application is running in.
	Environment string
	// BeforeSend modifies events before they are sent.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
	// LRUSize is the number of distinct recent errors remembered.
	LRUSize int
	// RecentWindow is how long an error is suppressed after being sent.
	RecentWindow time.Duration
}

type Client struct {
	// Recent tracks errors sent recently so duplicates are dropped.
	Recent *cache

	disabled bool
}

// New initializes the sentry client.
//
// Without a DSN, or with Disabled set, events are de-duplicated but never
// leave the process. Returns nil if the cache cannot be created.
func New(params Params) *Client {
	if params.BeforeSend == nil {
		params.BeforeSend = RemoveBottomFrames
	}

	dsn := params.DSN
	if params.Disabled {
		dsn = ""
	}
	if err := sentry.Init(
		sentry.ClientOptions{
			Dsn:              dsn,
			AttachStacktrace: params.AttachStacktrace,
			Release:          params.Release,
			Dist:             params.Commit,
			BeforeSend:       params.BeforeSend,
			Environment:      params.Environment,
		}); err != nil {
		slog.Error("sentry_ext: New: failed to initialize sentry", "err", err)
	}

	if dsn == "" {
		slog.Debug("sentry_ext: New: sentry is disabled")
	} else {
		slog.Debug("sentry_ext: New: sentry is enabled")
	}

	cache, err := newCache(params.LRUSize, params.RecentWindow)
	if err != nil {
		slog.Error("sentry_ext: New: failed to create cache", "err", err)
		return nil
	}

	return &Client{
		Recent:   cache,
		disabled: dsn == "",
	}
}

// Enabled reports whether events are sent to Sentry.
func (s *Client) Enabled() bool {
	return s != nil && !s.disabled
}

// CaptureException reports an error-level event enriched with tags.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if s == nil || err == nil || !s.Recent.shouldCapture(err.Error()) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureException(err)
}

// CaptureMessage reports an info-level event enriched with tags.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	if s == nil || !s.Recent.shouldCapture(msg) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureMessage(msg)
}

// Reraise reports a recovered panic value and panics again with it.
func (s *Client) Reraise(err any, tags map[string]string) {
	if err == nil {
		return
	}

	var e error
	if asErr, ok := err.(error); ok {
		e = asErr
	} else {
		e = fmt.Errorf("%v", err)
	}
	if s != nil {
		s.CaptureException(e, tags)
		s.Flush(2 * time.Second)
	}
	panic(err)
}

// Flush waits for buffered events to be sent.
func (s *Client) Flush(timeout time.Duration) bool {
	return sentry.CurrentHub().Flush(timeout)
}

// RemoveBottomFrames drops the frames of this package and the logger from
// the bottom of reported stack traces.
func RemoveBottomFrames(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	for i, exception := range event.Exception {
		if exception.Stacktrace == nil {
			continue
		}
		frames := exception.Stacktrace.Frames
		framesLen := len(frames)
		if framesLen < 3 {
			continue
		}
		for j := framesLen - 1; j >= framesLen-3; j-- {
			if isReportingFrame(frames[j]) {
				frames = frames[:j]
			} else {
				break
			}
		}
		event.Exception[i].Stacktrace.Frames = frames
	}
	return event
}

func isReportingFrame(frame sentry.Frame) bool {
	return strings.HasSuffix(frame.AbsPath, "sentry_ext/client.go") ||
		strings.HasSuffix(frame.AbsPath, "observability/logging.go")
}
