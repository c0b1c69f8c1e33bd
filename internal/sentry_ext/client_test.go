package sentry_ext_test

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/sentry_ext"
)

func TestNew_WithoutDSNIsDisabled(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{Commit: "abc123"})
	require.NotNil(t, sc)
	assert.False(t, sc.Enabled())
}

func TestNew_DisabledOverridesDSN(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{
		DSN:      "https://public@example.com/1",
		Disabled: true,
	})
	require.NotNil(t, sc)
	assert.False(t, sc.Enabled())
}

func TestCaptureException_Deduplicates(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{LRUSize: 2})
	require.NotNil(t, sc)

	sc.CaptureException(errors.New("series file missing"), nil)
	sc.CaptureException(errors.New("series file missing"), nil)
	sc.CaptureMessage("stream reconnected", nil)

	assert.Equal(t, 2, sc.Recent.Len())
}

func TestCaptureException_NilClientIsSafe(t *testing.T) {
	var sc *sentry_ext.Client
	assert.NotPanics(t, func() {
		sc.CaptureException(errors.New("boom"), nil)
		sc.CaptureMessage("boom", nil)
	})
	assert.False(t, sc.Enabled())
}

func TestReraise_Panics(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{})
	assert.PanicsWithValue(t, "render failed", func() {
		sc.Reraise("render failed", nil)
	})
}

func TestRemoveBottomFrames(t *testing.T) {
	event := &sentry.Event{
		Exception: []sentry.Exception{{
			Stacktrace: &sentry.Stacktrace{
				Frames: []sentry.Frame{
					{AbsPath: "/src/internal/depthview/model.go"},
					{AbsPath: "/src/internal/depthview/handlers.go"},
					{AbsPath: "/src/internal/observability/logging.go"},
					{AbsPath: "/src/internal/sentry_ext/client.go"},
				},
			},
		}},
	}

	got := sentry_ext.RemoveBottomFrames(event, nil)
	frames := got.Exception[0].Stacktrace.Frames
	require.Len(t, frames, 2)
	assert.Equal(t, "/src/internal/depthview/handlers.go", frames[1].AbsPath)
}
