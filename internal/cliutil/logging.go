package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/depthchart/internal/observability"
	"github.com/wandb/depthchart/internal/sentry_ext"
)

const defaultDebugLog = "depthchart-debug.log"

// LoggerParams configures SetupLogger.
type LoggerParams struct {
	// Interactive commands own the terminal; their logs never go to it.
	Interactive bool
	Release     string
	Commit      string
}

// SetupLogger builds the command logger from the persistent logging flags.
//
// The returned function flushes pending error reports and closes the log
// file.
func SetupLogger(cmd *cobra.Command, params LoggerParams) (*observability.CoreLogger, func(), error) {
	debug := viper.GetBool("debug") || os.Getenv("DEPTHCHART_DEBUG") != ""
	if f := cmd.Flags().Lookup("debug"); f != nil && f.Changed {
		debug, _ = cmd.Flags().GetBool("debug")
	}

	format, err := observability.ParseFormat(GetString(cmd, "log-format"))
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = cmd.ErrOrStderr()
	closeFile := func() {}
	logFile := GetString(cmd, "log-file")
	if logFile == "" && params.Interactive {
		if debug {
			logFile = filepath.Join(os.TempDir(), defaultDebugLog)
		} else {
			w = io.Discard
		}
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFile = func() { _ = f.Close() }
	}

	dsn := GetString(cmd, "sentry-dsn")
	sentryClient := sentry_ext.New(sentry_ext.Params{
		DSN:              dsn,
		Disabled:         dsn == "",
		AttachStacktrace: true,
		Release:          params.Release,
		Commit:           params.Commit,
	})

	logger := observability.NewCoreLogger(
		slog.New(observability.NewHandler(w, format, level)),
		&observability.CoreLoggerParams{
			Sentry: sentryClient,
			Tags:   observability.Tags{"command": cmd.Name()},
		},
	)

	return logger, func() {
		logger.Flush()
		closeFile()
	}, nil
}
