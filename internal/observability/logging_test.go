package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/observability"
)

func TestNewTags(t *testing.T) {
	testCases := []struct {
		name   string
		input  []any
		expect observability.Tags
	}{
		{
			name:   "from slog.Attr",
			input:  []any{slog.Int64("samples", 123)},
			expect: observability.Tags{"samples": "123"},
		},
		{
			name:   "from key and value",
			input:  []any{"id", "pool-a"},
			expect: observability.Tags{"id": "pool-a"},
		},
		{
			name:   "dangling key ignored",
			input:  []any{slog.String("a", "1"), "b"},
			expect: observability.Tags{"a": "1"},
		},
		{
			name:   "unsupported types skipped",
			input:  []any{map[string]string{"x": "y"}, "k", 10},
			expect: observability.Tags{"k": "10"},
		},
		{
			name:   "empty",
			input:  nil,
			expect: observability.Tags{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, observability.NewTags(tc.input...))
		})
	}
}

func TestCoreLogger_BaseTagsWin(t *testing.T) {
	logger := observability.NewCoreLogger(
		slog.New(slog.DiscardHandler),
		&observability.CoreLoggerParams{Tags: observability.Tags{"id": "chart"}},
	)
	logger.SetGlobalTags(observability.Tags{"source": "file"})

	derived := logger.With("extra", 1)
	assert.Equal(t, observability.Tags{"id": "chart", "source": "file"}, derived.GetTags())
}

func TestCoreLogger_CaptureWithoutSentry(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(
		slog.New(observability.NewHandler(&buf, observability.FormatJSON, slog.LevelDebug)),
		nil,
	)

	assert.NotPanics(t, func() {
		logger.CaptureError(errors.New("reload failed"), "path", "depth.csv")
		logger.CaptureWarn("stream lagging")
		logger.CaptureError(nil)
	})
	assert.Contains(t, buf.String(), `"msg":"reload failed"`)
	assert.Contains(t, buf.String(), `"path":"depth.csv"`)
}

func TestCoreLogger_ReraisePanics(t *testing.T) {
	logger := observability.NewNoOpLogger()
	assert.Panics(t, func() {
		defer logger.Reraise()
		panic("boom")
	})
}

func TestParseFormat(t *testing.T) {
	f, err := observability.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, observability.FormatJSON, f)

	f, err = observability.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, observability.FormatText, f)

	_, err = observability.ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	slog.New(observability.NewHandler(&buf, observability.FormatText, slog.LevelInfo)).
		Info("series loaded", "samples", 3)
	assert.Contains(t, buf.String(), "series loaded")
}
