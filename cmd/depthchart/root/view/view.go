package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wandb/depthchart/cmd/depthchart/root/version"
	"github.com/wandb/depthchart/internal/cliutil"
	"github.com/wandb/depthchart/internal/depthsource"
	"github.com/wandb/depthchart/internal/depthview"
	"github.com/wandb/depthchart/internal/observability"
	"github.com/wandb/depthchart/internal/watcher"
)

const streamBuffer = 16

func NewViewCmd() *cobra.Command {
	var (
		url        string
		id         string
		scheme     string
		brush      string
		attempts   uint
		retryDelay time.Duration
		maxRate    float64
	)

	cmd := &cobra.Command{
		Use:   "view [series-file]",
		Short: "Explore a depth chart in the terminal",
		Long: heredoc.Doc(`
			Opens an interactive depth chart. Drag to select a price range,
			drag the handles to resize it and use the wheel to zoom.

			The series file is reloaded whenever it changes on disk. With --url
			the chart follows a websocket depth feed instead.
		`),
		Example: heredoc.Doc(`
			$ depthchart view pool.csv
			$ depthchart view pool.yaml --brush 1800,2200 --scheme mono
			$ depthchart view --url ws://localhost:8080/depth --current 2000
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" && url == "" {
				return errors.New("a series file or --url is required")
			}

			selection, err := cliutil.ParseDomain(brush)
			if err != nil {
				return err
			}

			logger, cleanup, err := cliutil.SetupLogger(cmd, cliutil.LoggerParams{
				Interactive: true,
				Release:     version.Version,
				Commit:      version.GitCommit,
			})
			if err != nil {
				return err
			}
			defer cleanup()
			defer logger.Reraise()

			cfg := depthview.NewConfigManager(depthview.DefaultConfigPath(), logger)
			if scheme != "" {
				if err := cfg.SetColorScheme(scheme); err != nil {
					return err
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			logger.SetGlobalTags(observability.Tags{"chart": id})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			printer := observability.NewPrinter()
			var stream chan depthsource.Snapshot
			if url != "" {
				stream = make(chan depthsource.Snapshot, streamBuffer)
				source := depthsource.NewStreamSource(url,
					depthsource.WithLogger(logger),
					depthsource.WithPrinter(printer),
					depthsource.WithRetry(attempts, retryDelay, 10*retryDelay),
					depthsource.WithMaxRate(maxRate),
				)
				go func() {
					defer close(stream)
					err := source.Run(ctx, stream)
					if err != nil && !errors.Is(err, context.Canceled) {
						logger.CaptureError(err)
						printer.Errorf("live feed: %v", err)
					}
				}()
			}

			var w watcher.Watcher
			if path != "" {
				w = watcher.New(watcher.Params{Logger: logger, Settle: 200 * time.Millisecond})
			}

			model := depthview.NewModel(depthview.Params{
				SeriesPath: path,
				Stream:     stream,
				StreamURL:  url,
				ID:         id,
				Current:    cliutil.FloatPtr(cmd, "current"),
				Selection:  selection,
				Version:    version.Version,
				Config:     cfg,
				Watcher:    w,
				Printer:    printer,
				Logger:     logger,
			})
			defer model.Finish()

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("view: %w", err)
			}

			if d := model.BrushDomain(); d != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%g,%g\n", d.Low(), d.High())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Websocket URL of a live depth feed")
	cmd.Flags().StringVar(&id, "id", "", "Chart id (default: random UUID)")
	cmd.Flags().Float64("current", 0, "Current price (default: from the data)")
	cmd.Flags().StringVar(&scheme, "scheme", "", "Colour scheme to use and remember")
	cmd.Flags().StringVar(&brush, "brush", "", "Initially selected range as low,high")
	cmd.Flags().UintVar(&attempts, "retry-attempts", 10, "Connection attempts before giving up on the feed")
	cmd.Flags().Float64Var(&maxRate, "max-rate", 20, "Maximum feed updates per second (0 for unlimited)")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", 500*time.Millisecond, "Initial delay between connection attempts")

	return cmd
}
