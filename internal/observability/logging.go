// Package observability provides structured logging with error reporting.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/wandb/depthchart/internal/sentry_ext"
)

type Tags map[string]string

// NewTags creates Tags from a mix of slog.Attr values and key/value pairs.
// Incomplete pairs and other types are ignored.
func NewTags(args ...any) Tags {
	tags := Tags{}
	for len(args) > 0 {
		switch x := args[0].(type) {
		case slog.Attr:
			tags[x.Key] = x.Value.String()
			args = args[1:]
		case string:
			if len(args) < 2 {
				return tags
			}
			attr := slog.Any(x, args[1])
			tags[attr.Key] = attr.Value.String()
			args = args[2:]
		default:
			args = args[1:]
		}
	}
	return tags
}

const LevelFatal = slog.Level(12)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("observability: unknown log format %q", s)
	}
}

// NewHandler returns a slog handler writing to w in the given format.
//
// Text output goes through charmbracelet/log so it matches the look of the
// terminal UI; JSON output is meant for files collected by other tools.
func NewHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	if format == FormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.Level(level),
		Prefix:          "depthchart",
	})
}

type CoreLoggerParams struct {
	Sentry *sentry_ext.Client
	Tags   Tags
}

// CoreLogger is a slog.Logger that can also report to Sentry.
type CoreLogger struct {
	*slog.Logger
	baseTags Tags
	sentry   *sentry_ext.Client
}

func NewCoreLogger(logger *slog.Logger, params *CoreLoggerParams) *CoreLogger {
	if params == nil {
		params = &CoreLoggerParams{}
	}

	tags := Tags{}
	var args []any
	for key, value := range params.Tags {
		args = append(args, slog.String(key, value))
		tags[key] = value
	}

	return &CoreLogger{
		Logger:   logger.With(args...),
		sentry:   params.Sentry,
		baseTags: tags,
	}
}

// withArgs merges args with the logger's base tags. Base tags win.
func (cl *CoreLogger) withArgs(args ...any) Tags {
	tags := NewTags(args...)
	for key, value := range cl.baseTags {
		tags[key] = value
	}
	return tags
}

// SetGlobalTags updates tags shared by this logger, its parent and its
// descendants. These take precedence over tags set by With().
func (cl *CoreLogger) SetGlobalTags(tags Tags) {
	for key, value := range tags {
		cl.baseTags[key] = value
	}
}

// With returns a derived logger that includes the given attributes.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{
		Logger:   cl.Logger.With(args...),
		baseTags: cl.baseTags,
		sentry:   cl.sentry,
	}
}

// CaptureError logs an error and sends it to Sentry.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	if err == nil {
		return
	}
	cl.Error(err.Error(), args...)
	cl.sentry.CaptureException(err, cl.withArgs(args...))
}

// CaptureFatal logs a fatal error and sends it to Sentry.
func (cl *CoreLogger) CaptureFatal(err error, args ...any) {
	if err == nil {
		return
	}
	cl.Log(context.Background(), LevelFatal, err.Error(), args...)
	cl.sentry.CaptureException(err, cl.withArgs(args...))
}

// CaptureWarn logs a warning and sends it to Sentry.
func (cl *CoreLogger) CaptureWarn(msg string, args ...any) {
	cl.Warn(msg, args...)
	cl.sentry.CaptureMessage(msg, cl.withArgs(args...))
}

// CaptureInfo logs an info message and sends it to Sentry.
func (cl *CoreLogger) CaptureInfo(msg string, args ...any) {
	cl.Info(msg, args...)
	cl.sentry.CaptureMessage(msg, cl.withArgs(args...))
}

// Reraise reports a panic to Sentry and panics again.
//
// Must be called directly by defer.
func (cl *CoreLogger) Reraise(args ...any) {
	if err := recover(); err != nil {
		cl.Error("panic", "err", fmt.Sprint(err))
		cl.sentry.Reraise(err, cl.withArgs(args...))
	}
}

// Flush waits for pending Sentry events.
func (cl *CoreLogger) Flush() {
	if cl.sentry.Enabled() {
		cl.sentry.Flush(defaultFlushTimeout)
	}
}

// GetTags returns the tags associated with the logger.
//
// Used for testing.
func (cl *CoreLogger) GetTags() Tags {
	return cl.baseTags
}

// NewNoOpLogger returns a logger that discards all messages.
//
// Used for testing.
func NewNoOpLogger() *CoreLogger {
	return NewCoreLogger(slog.New(slog.DiscardHandler), nil)
}

const defaultFlushTimeout = 2 * time.Second
